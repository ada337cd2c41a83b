package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/evdbrink/freezer-storage-api/internal/expiration"
	"github.com/evdbrink/freezer-storage-api/internal/metrics"
	"github.com/evdbrink/freezer-storage-api/internal/model"
	"github.com/evdbrink/freezer-storage-api/internal/repository"
	"github.com/evdbrink/freezer-storage-api/internal/sqs"
)

// TransactionalStorage couples a storage mutation with its outbox event in
// one transaction. Implemented by sql.TransactionalRepository.
type TransactionalStorage interface {
	// CreateStorageWithEvent inserts the entry, then calls makeEvent with
	// the created entry (serial ID assigned) to build the outbox event,
	// all in one transaction.
	CreateStorageWithEvent(ctx context.Context, entry *model.StorageEntry, makeEvent func(*model.StorageEntry) (*model.Event, error)) (*model.StorageEntry, error)
	SetWithdrawnWithEvent(ctx context.Context, id int64, dateOut *time.Time, event *model.Event) error
	DeleteStorageWithEvent(ctx context.Context, id int64, event *model.Event) error
}

// StorageService runs the storage query pipeline (validate, query, project,
// post-filter) and the storage entry lifecycle (intake, withdrawal,
// re-entry, deletion) with outbox events.
type StorageService struct {
	repo repository.StorageRepository
	tx   TransactionalStorage
	now  func() time.Time
}

// NewStorageService creates a StorageService using the current local
// calendar date as "today" for expiration calculations.
func NewStorageService(repo repository.StorageRepository, tx TransactionalStorage) *StorageService {
	return NewStorageServiceWithClock(repo, tx, expiration.Today)
}

// NewStorageServiceWithClock creates a StorageService with an injected
// clock, keeping expiration results reproducible in tests.
func NewStorageServiceWithClock(repo repository.StorageRepository, tx TransactionalStorage, now func() time.Time) *StorageService {
	return &StorageService{
		repo: repo,
		tx:   tx,
		now:  now,
	}
}

// QueryStorage runs the full storage query pipeline. The filter is
// validated before anything touches the database; storable predicates run
// in SQL, expiration-derived predicates run in memory after projection.
func (s *StorageService) QueryStorage(ctx context.Context, filter repository.StorageFilter) ([]model.StorageResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListRows(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := projectStorageRows(rows, s.now())
	responses = applyExpirationFilters(responses, filter)

	metrics.StorageQueries.Inc()

	return responses, nil
}

// GetStorageByID returns the projected response for a single storage entry.
func (s *StorageService) GetStorageByID(ctx context.Context, id int64) (*model.StorageResponse, error) {
	row, err := s.repo.FindRowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := projectStorageRow(*row, s.now())
	return &response, nil
}

// StoreItem records a physical intake. DateIn defaults to today when the
// client leaves it unset; a fresh entry is always available with no
// withdrawal date.
func (s *StorageService) StoreItem(ctx context.Context, entry *model.StorageEntry) (*model.StorageEntry, error) {
	if entry.DateIn.IsZero() {
		entry.DateIn = s.now()
	}
	entry.DateOut = nil
	entry.Available = true

	makeEvent := func(created *model.StorageEntry) (*model.Event, error) {
		return newStorageEvent(model.EventTypeStorageCreated, created)
	}

	created, err := s.tx.CreateStorageWithEvent(ctx, entry, makeEvent)
	if err != nil {
		return nil, err
	}

	metrics.StorageEntriesCreated.Inc()

	return created, nil
}

// UpdateItem overwrites a storage entry. Availability is derived from the
// withdrawal date rather than trusted from the client.
func (s *StorageService) UpdateItem(ctx context.Context, entry *model.StorageEntry) (*model.StorageEntry, error) {
	entry.Available = entry.DateOut == nil
	return s.repo.Update(ctx, entry)
}

// WithdrawItem marks an entry as taken out of storage today.
func (s *StorageService) WithdrawItem(ctx context.Context, id int64) error {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.DateOut != nil {
		return errors.New("Storage item already withdrawn")
	}

	dateOut := s.now()
	entry.DateOut = &dateOut
	entry.Available = false

	event, err := newStorageEvent(model.EventTypeStorageWithdrawn, entry)
	if err != nil {
		return err
	}

	if err := s.tx.SetWithdrawnWithEvent(ctx, id, &dateOut, event); err != nil {
		return err
	}

	metrics.StorageWithdrawals.Inc()

	return nil
}

// ReenterItem clears the withdrawal date, putting the entry back into the
// default query scope.
func (s *StorageService) ReenterItem(ctx context.Context, id int64) error {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.DateOut == nil {
		return errors.New("Storage item is not withdrawn")
	}

	entry.DateOut = nil
	entry.Available = true

	event, err := newStorageEvent(model.EventTypeStorageReentered, entry)
	if err != nil {
		return err
	}

	return s.tx.SetWithdrawnWithEvent(ctx, id, nil, event)
}

// DeleteItem removes a storage entry for good.
func (s *StorageService) DeleteItem(ctx context.Context, id int64) error {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	event, err := newStorageEvent(model.EventTypeStorageDeleted, entry)
	if err != nil {
		return err
	}

	if err := s.tx.DeleteStorageWithEvent(ctx, id, event); err != nil {
		return err
	}

	metrics.StorageEntriesDeleted.Inc()

	return nil
}

func newStorageEvent(eventType string, entry *model.StorageEntry) (*model.Event, error) {
	msg := sqs.StorageMessage{
		Action:      eventType,
		StorageID:   entry.ID,
		ProductID:   entry.ProductID,
		DrawerID:    entry.DrawerID,
		WeightGrams: entry.WeightGrams,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	return &model.Event{
		EventType: eventType,
		EventData: data,
		Status:    model.EventStatusPending,
	}, nil
}
