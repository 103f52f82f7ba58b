package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/abcretail/orderflow/internal/entity"
	"github.com/abcretail/orderflow/internal/notify"
)

// GetOrder fetches one order by id.
func (e *Engine) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	var order entity.Order
	found, err := e.get(ctx, entity.PartitionOrder, orderID, &order)
	if err != nil {
		return nil, &PersistenceError{Phase: PhaseRead, Err: err}
	}
	if !found {
		return nil, &NotFoundError{Resource: "order", ID: orderID}
	}
	return &order, nil
}

// ListOrders returns every order, for the listing page.
func (e *Engine) ListOrders(ctx context.Context) ([]entity.Order, error) {
	var orders []entity.Order
	if err := e.getAll(ctx, entity.PartitionOrder, &orders); err != nil {
		return nil, &PersistenceError{Phase: PhaseRead, Err: err}
	}
	return orders, nil
}

// ListProducts returns every product, for dropdown population.
func (e *Engine) ListProducts(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	if err := e.getAll(ctx, entity.PartitionProduct, &products); err != nil {
		return nil, &PersistenceError{Phase: PhaseRead, Err: err}
	}
	return products, nil
}

// ListCustomers returns every customer, for dropdown population.
func (e *Engine) ListCustomers(ctx context.Context) ([]entity.Customer, error) {
	var customers []entity.Customer
	if err := e.getAll(ctx, entity.PartitionCustomer, &customers); err != nil {
		return nil, &PersistenceError{Phase: PhaseRead, Err: err}
	}
	return customers, nil
}

// EditOrder overwrites the order date and status of an existing order.
// References, prices and quantity are immutable here. Last writer wins; no
// concurrency token is checked. No notification is emitted on this path.
func (e *Engine) EditOrder(ctx context.Context, orderID string, orderDate time.Time, status string) (*entity.Order, error) {
	order, err := e.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if e.opts.StrictTransitions && status != order.Status && !entity.CanTransition(order.Status, status) {
		return nil, &ValidationError{Message: fmt.Sprintf("illegal status transition %s -> %s", order.Status, status)}
	}

	order.OrderDate = entity.NormalizeOrderDate(orderDate)
	order.Status = status

	if err := e.update(ctx, order); err != nil {
		return nil, &PersistenceError{Phase: PhaseOrderWrite, Err: err}
	}
	return order, nil
}

// UpdateStatus overwrites only the status and, after a successful write,
// emits an order-status-changed event best-effort. Any string is accepted as
// a status unless the engine runs with strict transitions; the permissive
// default reproduces the source system.
func (e *Engine) UpdateStatus(ctx context.Context, orderID, newStatus string) (*entity.Order, error) {
	order, err := e.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if e.opts.StrictTransitions && !entity.CanTransition(order.Status, newStatus) {
		return nil, &ValidationError{Message: fmt.Sprintf("illegal status transition %s -> %s", order.Status, newStatus)}
	}

	previousStatus := order.Status
	order.Status = newStatus

	if err := e.update(ctx, order); err != nil {
		return nil, &PersistenceError{Phase: PhaseOrderWrite, Err: err}
	}

	e.publish(ctx, notify.ChannelOrderNotifications, notify.OrderStatusChanged{
		OrderID:        order.RowKey,
		CustomerID:     order.CustomerID,
		CustomerName:   order.Username,
		ProductName:    order.ProductName,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
		UpdatedDate:    e.nowFunc().UTC(),
		UpdatedBy:      "System",
	})

	return order, nil
}

// DeleteOrder removes an order record. Stock is deliberately not restored;
// the source system never compensated deletes.
func (e *Engine) DeleteOrder(ctx context.Context, orderID string) error {
	if err := e.delete(ctx, entity.PartitionOrder, orderID); err != nil {
		return &PersistenceError{Phase: PhaseOrderWrite, Err: err}
	}
	return nil
}

// Quote is a read-only snapshot of a product's current price and stock, used
// by the form layer before submitting a creation request.
type Quote struct {
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// GetProductQuote reflects the store's state at call time; no caching.
// Staleness between quote and submit is resolved by the creation stock check.
func (e *Engine) GetProductQuote(ctx context.Context, productID string) (*Quote, error) {
	var product entity.Product
	found, err := e.get(ctx, entity.PartitionProduct, productID, &product)
	if err != nil {
		return nil, &PersistenceError{Phase: PhaseRead, Err: err}
	}
	if !found {
		return nil, &NotFoundError{Resource: "product", ID: productID}
	}
	return &Quote{
		ProductName: product.ProductName,
		Price:       product.Price,
		Stock:       product.StockAvailable,
	}, nil
}
