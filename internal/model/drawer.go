package model

// Drawer represents a drawer inside a freezer. Drawer names are unique
// within their owning freezer, not globally.
type Drawer struct {
	ID        int64
	Name      string
	FreezerID int64
}
