package model

// DefaultExpirationMonths is used when a product is created without an
// explicit shelf life.
const DefaultExpirationMonths = 6

// Product is a catalog entry describing something that can be stored,
// independent of any physical location. ExpirationMonths is the shelf life
// used to derive expiration dates for storage entries of this product.
type Product struct {
	ID               int64
	Name             string
	ExpirationMonths int
}
