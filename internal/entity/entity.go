// Package entity defines the records persisted in the entity table.
// Attribute names (PascalCase) are the stable contract shared with the
// systems that consume the table and the notification payloads.
package entity

import "time"

// Logical partitions of the entity table.
const (
	PartitionCustomer = "Customer"
	PartitionProduct  = "Product"
	PartitionOrder    = "Order"
)

// Customer is read-only for the order flow; it only contributes
// the denormalized display name.
type Customer struct {
	PartitionKey    string `dynamodbav:"PartitionKey" json:"-"`
	RowKey          string `dynamodbav:"RowKey" json:"customerId"`
	Username        string `dynamodbav:"Username" json:"username"`
	Name            string `dynamodbav:"Name" json:"name"`
	Surname         string `dynamodbav:"Surname" json:"surname"`
	Email           string `dynamodbav:"Email" json:"email"`
	ShippingAddress string `dynamodbav:"ShippingAddress" json:"shippingAddress"`
}

// DisplayName is the full name denormalized into order notifications.
func (c Customer) DisplayName() string {
	return c.Name + " " + c.Surname
}

type Product struct {
	PartitionKey   string  `dynamodbav:"PartitionKey" json:"-"`
	RowKey         string  `dynamodbav:"RowKey" json:"productId"`
	ProductName    string  `dynamodbav:"ProductName" json:"productName"`
	Description    string  `dynamodbav:"Description" json:"description"`
	Price          float64 `dynamodbav:"Price" json:"price"`
	StockAvailable int     `dynamodbav:"StockAvailable" json:"stockAvailable"`
	ImageURL       string  `dynamodbav:"ImageUrl" json:"imageUrl,omitempty"`
}

// Order is the record of a placed order. RowKey, UnitPrice, TotalPrice,
// Quantity and the customer/product references are immutable after creation;
// only OrderDate and Status may change.
type Order struct {
	PartitionKey string    `dynamodbav:"PartitionKey" json:"-"`
	RowKey       string    `dynamodbav:"RowKey" json:"orderId"`
	CustomerID   string    `dynamodbav:"CustomerId" json:"customerId"`
	Username     string    `dynamodbav:"Username" json:"username"`
	ProductID    string    `dynamodbav:"ProductId" json:"productId"`
	ProductName  string    `dynamodbav:"ProductName" json:"productName"`
	OrderDate    time.Time `dynamodbav:"OrderDate" json:"orderDate"`
	Quantity     int       `dynamodbav:"Quantity" json:"quantity"`
	UnitPrice    float64   `dynamodbav:"UnitPrice" json:"unitPrice"`
	TotalPrice   float64   `dynamodbav:"TotalPrice" json:"totalPrice"`
	Status       string    `dynamodbav:"Status" json:"status"`
	StockApplied bool      `dynamodbav:"StockApplied" json:"-"`
}

// NormalizeOrderDate truncates to a UTC calendar date, time component zeroed.
func NormalizeOrderDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
