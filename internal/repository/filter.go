package repository

import "time"

const (
	// DefaultMinWeight is the lower weight bound applied when the client
	// does not supply one.
	DefaultMinWeight = 0.0
	// DefaultMaxWeight is the upper weight bound applied when the client
	// does not supply one.
	DefaultMaxWeight = 1000.0
)

// StorageFilter carries the query dimensions for the storage list endpoint.
// Pointer fields are optional: nil means "no constraint from this
// dimension". IsWithdrawn, MinWeight and MaxWeight always have a value
// after defaulting and always translate into query predicates.
//
// ExpiresInDays, ExpiresAfterDate and ExpiresBeforeDate are derived-field
// filters: expiration is computed from date_in and the product shelf life,
// so they are never pushed down into SQL and are applied in memory after
// projection instead.
type StorageFilter struct {
	ProductName       *string
	FreezerName       *string
	DrawerName        *string
	InBefore          *time.Time
	ExpiresInDays     *int
	ExpiresAfterDate  *time.Time
	ExpiresBeforeDate *time.Time
	IsWithdrawn       bool
	MinWeight         float64
	MaxWeight         float64
}

// NewStorageFilter returns a filter with the documented defaults: active
// entries only, weight between 0 and 1000 grams.
func NewStorageFilter() StorageFilter {
	return StorageFilter{
		IsWithdrawn: false,
		MinWeight:   DefaultMinWeight,
		MaxWeight:   DefaultMaxWeight,
	}
}

// Validate checks the filter for cross-field consistency. Rules are checked
// in a fixed order and the first failing rule wins. The returned messages
// are part of the HTTP contract and must not change.
func (f StorageFilter) Validate() error {
	if f.DrawerName != nil && f.FreezerName == nil {
		return &ValidationError{Message: "drawerName also requires freezerName as query parameters"}
	}
	if f.InBefore != nil && f.ExpiresAfterDate != nil && !f.InBefore.Before(*f.ExpiresAfterDate) {
		return &ValidationError{Message: "inBefore cannot be later than expiresAfterDate"}
	}
	if f.ExpiresBeforeDate != nil && f.ExpiresAfterDate != nil && !f.ExpiresBeforeDate.After(*f.ExpiresAfterDate) {
		return &ValidationError{Message: "expiresBeforeDate cannot be equal or earlier than expiresAfterDate"}
	}
	if f.MinWeight >= f.MaxWeight {
		return &ValidationError{Message: "minWeight must be smaller than maxWeight"}
	}
	return nil
}
