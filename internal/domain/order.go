package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is a single order line: product label, quantity, unit price and
// derived subtotal.
type OrderItem struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`
}

// Order is produced once per successful submission and never mutated
// afterward. It is a full value copy of the customer form and the cart lines,
// so later cart mutations cannot affect it.
type Order struct {
	ID        uuid.UUID    `json:"id"`
	Customer  CustomerInfo `json:"customer"`
	Items     []OrderItem  `json:"items"`
	Total     float64      `json:"total"`
	CreatedAt time.Time    `json:"orderDate"`
}

// NewOrder assembles an order from a customer snapshot and the cart's current
// line items. Unit price is the discounted price captured when the item was
// added to the cart.
func NewOrder(customer CustomerInfo, items []CartItem, now time.Time) *Order {
	lines := make([]OrderItem, 0, len(items))
	total := 0.0
	for _, item := range items {
		subtotal := item.Subtotal()
		lines = append(lines, OrderItem{
			Product:  item.Label(),
			Quantity: item.Quantity,
			Price:    item.DiscountedPrice,
			Subtotal: subtotal,
		})
		total += subtotal
	}

	return &Order{
		ID:        uuid.New(),
		Customer:  customer,
		Items:     lines,
		Total:     total,
		CreatedAt: now,
	}
}
