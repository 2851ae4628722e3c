package domain

// CustomerInfo holds the checkout contact form fields. All four are required
// to be non-empty before an order can be submitted.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
