package notify

import "time"

// Event payloads. Field names are the wire contract parsed by downstream
// consumers; they keep the upstream PascalCase convention.

// OrderCreated is published on order-notifications after a successful creation.
type OrderCreated struct {
	OrderID      string    `json:"OrderId"`
	CustomerID   string    `json:"CustomerId"`
	CustomerName string    `json:"CustomerName"`
	ProductName  string    `json:"ProductName"`
	Quantity     int       `json:"Quantity"`
	TotalPrice   float64   `json:"TotalPrice"`
	OrderDate    time.Time `json:"OrderDate"`
	Status       string    `json:"Status"`
}

// StockUpdated is published on stock-updates after a stock decrement.
type StockUpdated struct {
	ProductID     string    `json:"ProductId"`
	ProductName   string    `json:"ProductName"`
	PreviousStock int       `json:"PreviousStock"`
	NewStock      int       `json:"NewStock"`
	UpdatedBy     string    `json:"UpdatedBy"`
	UpdateDate    time.Time `json:"UpdateDate"`
}

// OrderStatusChanged is published on order-notifications after a status update.
type OrderStatusChanged struct {
	OrderID        string    `json:"OrderId"`
	CustomerID     string    `json:"CustomerId"`
	CustomerName   string    `json:"CustomerName"`
	ProductName    string    `json:"ProductName"`
	PreviousStatus string    `json:"PreviousStatus"`
	NewStatus      string    `json:"NewStatus"`
	UpdatedDate    time.Time `json:"UpdatedDate"`
	UpdatedBy      string    `json:"UpdatedBy"`
}

// StockReconcile is the internal repair message consumed by the worker when
// an order was persisted but its stock decrement failed.
type StockReconcile struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
