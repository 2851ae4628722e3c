package domain

// SnapshotVersion is the current persisted cart layout version. Snapshots with
// any other version are treated as unreadable and the cart starts empty.
const SnapshotVersion = 1

// CartItem is a product reference plus a price snapshot taken when the item
// was added, and a quantity. Quantity is never persisted or observed below 1;
// a quantity update that would reach 0 removes the item instead.
type CartItem struct {
	ProductID       int64   `json:"id" bson:"id"`
	Name            string  `json:"name" bson:"name"`
	Scent           string  `json:"scent" bson:"scent"`
	Image           string  `json:"image" bson:"image"`
	OriginalPrice   float64 `json:"originalPrice" bson:"original_price"`
	DiscountedPrice float64 `json:"discountedPrice" bson:"discounted_price"`
	Discount        int     `json:"discount" bson:"discount"`
	Quantity        int     `json:"quantity" bson:"quantity"`
}

// NewCartItem copies the product's display fields and prices into a line item
// with quantity 1.
func NewCartItem(p Product) CartItem {
	return CartItem{
		ProductID:       p.ID,
		Name:            p.Name,
		Scent:           p.Scent,
		Image:           p.Image,
		OriginalPrice:   p.OriginalPrice,
		DiscountedPrice: p.DiscountedPrice,
		Discount:        p.Discount,
		Quantity:        1,
	}
}

// Label is the display name used on order lines.
func (i CartItem) Label() string {
	return i.Name + " - " + i.Scent
}

// Subtotal is the discounted price times the quantity.
func (i CartItem) Subtotal() float64 {
	return i.DiscountedPrice * float64(i.Quantity)
}

// CartSnapshot is the persisted cart layout: the full ordered item collection
// plus a version tag for schema evolution.
type CartSnapshot struct {
	Version int        `json:"version" bson:"version"`
	Items   []CartItem `json:"items" bson:"items"`
}
