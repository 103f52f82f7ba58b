package reconcile

import "time"

// Status values for reconciliation markers
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// Record marks a stock-decrement replay for one order. Claiming the record
// is what makes the replay safe: only one reconciler can create it, and a
// DONE marker means the decrement for this order has already been applied.
type Record struct {
	OrderID   string    `dynamodbav:"OrderId"` // PK
	Status    string    `dynamodbav:"Status"`
	ProductID string    `dynamodbav:"ProductId"`
	Quantity  int       `dynamodbav:"Quantity"`
	CreatedAt time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt time.Time `dynamodbav:"UpdatedAt"`
	ExpiresAt int64     `dynamodbav:"ExpiresAt"` // TTL epoch seconds
	Note      string    `dynamodbav:"Note,omitempty"`
}
