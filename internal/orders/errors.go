package orders

import "fmt"

// ValidationError means the caller supplied a bad or missing reference and
// must correct the input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StockError means the requested quantity exceeds what is available. The
// caller can retry with a lower quantity or after restock.
type StockError struct {
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock, available: %d", e.Available)
}

// NotFoundError means the referenced record no longer exists.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// Phase identifies which store round trip a PersistenceError came from, so
// the caller can tell whether an order record was already written.
type Phase string

const (
	PhaseRead        Phase = "read"
	PhaseOrderWrite  Phase = "order-write"
	PhaseStockUpdate Phase = "stock-update"
)

// PersistenceError wraps a store failure.
type PersistenceError struct {
	Phase Phase
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure (%s): %v", e.Phase, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// OrderPersisted reports whether the failure happened after the order record
// was durably written. When true the caller should not retry the whole
// creation; the stock decrement is repaired via reconciliation instead.
func (e *PersistenceError) OrderPersisted() bool {
	return e.Phase == PhaseStockUpdate
}
