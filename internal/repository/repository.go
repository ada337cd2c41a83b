package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/evdbrink/freezer-storage-api/internal/model"
)

// StorageRepository manages storage entries and the joined rows consumed by
// the storage query pipeline.
type StorageRepository interface {
	// ListRows runs the composed storage list query and returns joined
	// rows ordered ascending by storage ID. Only directly-expressible
	// predicates from the filter are applied; derived expiration filters
	// are the caller's concern.
	ListRows(ctx context.Context, filter StorageFilter) ([]model.StorageRow, error)
	// FindRowByID returns the joined row for a single storage entry.
	FindRowByID(ctx context.Context, id int64) (*model.StorageRow, error)
	FindByID(ctx context.Context, id int64) (*model.StorageEntry, error)
	Create(ctx context.Context, entry *model.StorageEntry) (*model.StorageEntry, error)
	Update(ctx context.Context, entry *model.StorageEntry) (*model.StorageEntry, error)
	// SetWithdrawn marks an entry as withdrawn on the given date, or
	// clears the withdrawal when dateOut is nil (re-entry).
	SetWithdrawn(ctx context.Context, id int64, dateOut *time.Time) error
	DeleteByID(ctx context.Context, id int64) error
}

// ProductRepository manages the product catalog.
type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	FindByName(ctx context.Context, name string) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) (*model.Product, error)
	DeleteByID(ctx context.Context, id int64) error
}

// FreezerRepository manages freezers.
type FreezerRepository interface {
	List(ctx context.Context) ([]model.Freezer, error)
	FindByID(ctx context.Context, id int64) (*model.Freezer, error)
	Create(ctx context.Context, freezer *model.Freezer) (*model.Freezer, error)
	Update(ctx context.Context, freezer *model.Freezer) (*model.Freezer, error)
	DeleteByID(ctx context.Context, id int64) error
}

// DrawerRepository manages drawers.
type DrawerRepository interface {
	List(ctx context.Context) ([]model.Drawer, error)
	ListByFreezerID(ctx context.Context, freezerID int64) ([]model.Drawer, error)
	FindByID(ctx context.Context, id int64) (*model.Drawer, error)
	Create(ctx context.Context, drawer *model.Drawer) (*model.Drawer, error)
	Update(ctx context.Context, drawer *model.Drawer) (*model.Drawer, error)
	DeleteByID(ctx context.Context, id int64) error
}

// EventRepository manages outbox events.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	// ListPending returns up to limit pending events, oldest first.
	ListPending(ctx context.Context, limit int) ([]model.Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus) error
}
