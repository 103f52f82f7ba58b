package validation

import "time"

// OrderDateLayout is the wire format for order dates: a calendar date,
// normalized to UTC at write time.
const OrderDateLayout = "2006-01-02"

// CreateOrderRequest is the payload for POST /orders
type CreateOrderRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	ProductID  string `json:"product_id" validate:"required"`
	OrderDate  string `json:"order_date" validate:"required"`     // YYYY-MM-DD
	Quantity   int    `json:"quantity" validate:"required,min=1"` // must be >= 1
}

// EditOrderRequest is the payload for PUT /orders/:id. Only the order date
// and status are editable.
type EditOrderRequest struct {
	OrderDate string `json:"order_date" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

// UpdateStatusRequest is the payload for POST /orders/status
type UpdateStatusRequest struct {
	ID        string `json:"id" validate:"required"`
	NewStatus string `json:"new_status" validate:"required"`
}

// ParseOrderDate parses a wire-format order date.
func ParseOrderDate(s string) (time.Time, error) {
	return time.Parse(OrderDateLayout, s)
}
