package model

import "time"

// StorageEntry represents one physical act of putting a weighed quantity of
// a product into a drawer on a date. DateOut is set only on withdrawal;
// while it is unset the entry is active and in the default query scope.
type StorageEntry struct {
	ID          int64
	ProductID   int64
	DrawerID    int64
	WeightGrams float64
	DateIn      time.Time
	DateOut     *time.Time
	Available   bool
}

// StorageRow is the denormalized result of joining a storage entry with its
// product, drawer and freezer. It is what the storage list query yields.
type StorageRow struct {
	Entry            StorageEntry
	ProductName      string
	ExpirationMonths int
	DrawerName       string
	FreezerName      string
}

// StorageResponse is the view of a storage row returned to clients, with
// expiration data derived from the product shelf life.
type StorageResponse struct {
	StorageID       int64
	ProductName     string
	FreezerName     string
	DrawerName      string
	WeightGrams     float64
	ExpirationDate  time.Time
	ExpiresInDays   int
	InStorageSince  time.Time
	OutStorageSince *time.Time
}
