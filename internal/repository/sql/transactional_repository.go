package sql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/evdbrink/freezer-storage-api/internal/model"
)

// TransactionalRepository couples storage mutations with their outbox events
// in a single transaction, so a lifecycle notification is recorded exactly
// when its mutation commits.
type TransactionalRepository struct {
	db *sql.DB
}

// NewTransactionalRepository creates a new TransactionalRepository.
func NewTransactionalRepository(db *sql.DB) *TransactionalRepository {
	return &TransactionalRepository{db: db}
}

// CreateStorageWithEvent inserts a storage entry and its intake event in a
// single transaction. makeEvent is called with the created entry so the
// event payload can carry the assigned serial ID.
func (tr *TransactionalRepository) CreateStorageWithEvent(ctx context.Context, entry *model.StorageEntry, makeEvent func(*model.StorageEntry) (*model.Event, error)) (*model.StorageEntry, error) {
	tx, err := tr.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	storageRepo := &StorageRepository{db: tr.db, txn: tx}
	eventRepo := &EventRepository{db: tr.db, txn: tx}

	created, err := storageRepo.Create(ctx, entry)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create storage entry: %w", err)
	}

	event, err := makeEvent(created)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if _, err = eventRepo.Create(ctx, event); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return created, nil
}

// SetWithdrawnWithEvent updates the withdrawal state of a storage entry and
// records the matching event in a single transaction. A nil dateOut clears
// the withdrawal (re-entry).
func (tr *TransactionalRepository) SetWithdrawnWithEvent(ctx context.Context, id int64, dateOut *time.Time, event *model.Event) error {
	tx, err := tr.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	storageRepo := &StorageRepository{db: tr.db, txn: tx}
	eventRepo := &EventRepository{db: tr.db, txn: tx}

	if err := storageRepo.SetWithdrawn(ctx, id, dateOut); err != nil {
		tx.Rollback()
		return err
	}

	if _, err = eventRepo.Create(ctx, event); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteStorageWithEvent deletes a storage entry and records the deletion
// event in a single transaction.
func (tr *TransactionalRepository) DeleteStorageWithEvent(ctx context.Context, id int64, event *model.Event) error {
	tx, err := tr.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	storageRepo := &StorageRepository{db: tr.db, txn: tx}
	eventRepo := &EventRepository{db: tr.db, txn: tx}

	if err := storageRepo.DeleteByID(ctx, id); err != nil {
		tx.Rollback()
		return err
	}

	if _, err = eventRepo.Create(ctx, event); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
