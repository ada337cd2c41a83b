package model

// Freezer represents a physical freezer, the root of the storage hierarchy.
type Freezer struct {
	ID   int64
	Name string
}
