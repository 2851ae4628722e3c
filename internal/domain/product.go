package domain

// Product is a catalog entry. The catalog is read-only for the lifetime of a
// cart; the cart copies the fields it needs when an item is added, so later
// catalog changes never leak into an open cart.
type Product struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Scent           string  `json:"scent"`
	Image           string  `json:"image"`
	OriginalPrice   float64 `json:"originalPrice"`
	DiscountedPrice float64 `json:"discountedPrice"`
	Discount        int     `json:"discount"`
}

// Label is the display name used on order lines, e.g. "PRICKLEYS Handwash - Lemon".
func (p Product) Label() string {
	return p.Name + " - " + p.Scent
}
