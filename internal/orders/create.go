package orders

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/abcretail/orderflow/internal/entity"
	"github.com/abcretail/orderflow/internal/metrics"
	"github.com/abcretail/orderflow/internal/notify"
	"github.com/abcretail/orderflow/internal/store"
)

// StockUpdatedBy is the actor label carried on stock-update events from the
// creation path.
const StockUpdatedBy = "Order System"

type CreateOrderInput struct {
	CustomerID string
	ProductID  string
	OrderDate  time.Time
	Quantity   int
}

// CreateOrder validates the request, records the order, decrements product
// stock, and emits order-created and stock-updated events.
//
// The order insert and the stock update are two writes with no transaction
// between them. A failure after the insert leaves the order persisted with
// stock not yet reflected; that state is surfaced as a PersistenceError in
// the stock-update phase and handed to the reconciliation path.
func (e *Engine) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	if in.Quantity < 1 {
		return nil, &ValidationError{Message: "quantity must be at least 1"}
	}

	var customer entity.Customer
	customerFound, err := e.get(ctx, entity.PartitionCustomer, in.CustomerID, &customer)
	if err != nil {
		return nil, &PersistenceError{Phase: PhaseRead, Err: err}
	}
	var product entity.Product
	productFound, err := e.get(ctx, entity.PartitionProduct, in.ProductID, &product)
	if err != nil {
		return nil, &PersistenceError{Phase: PhaseRead, Err: err}
	}
	if !customerFound || !productFound {
		return nil, &ValidationError{Message: "invalid customer or product"}
	}

	if product.StockAvailable < in.Quantity {
		return nil, &StockError{Available: product.StockAvailable}
	}

	now := e.nowFunc().UTC()
	order := &entity.Order{
		PartitionKey: entity.PartitionOrder,
		RowKey:       e.newID(),
		CustomerID:   in.CustomerID,
		Username:     customer.Username,
		ProductID:    in.ProductID,
		ProductName:  product.ProductName,
		OrderDate:    entity.NormalizeOrderDate(in.OrderDate),
		Quantity:     in.Quantity,
		UnitPrice:    product.Price,
		TotalPrice:   product.Price * float64(in.Quantity),
		Status:       entity.StatusSubmitted,
	}

	if err := e.insert(ctx, order); err != nil {
		return nil, &PersistenceError{Phase: PhaseOrderWrite, Err: err}
	}

	previousStock := product.StockAvailable
	newStock, err := e.applyStockDecrement(ctx, &product, in.Quantity)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientStock) {
			// Atomic variant: a concurrent order consumed the stock between
			// the check and the decrement. Compensate by removing the order
			// record and report what is left.
			if derr := e.delete(ctx, entity.PartitionOrder, order.RowKey); derr != nil {
				e.logger.Error("failed to remove order after losing stock race",
					zap.String("orderId", order.RowKey), zap.Error(derr))
			}
			available := product.StockAvailable
			var fresh entity.Product
			if found, rerr := e.get(ctx, entity.PartitionProduct, in.ProductID, &fresh); rerr == nil && found {
				available = fresh.StockAvailable
			}
			return nil, &StockError{Available: available}
		}

		e.enqueueReconcile(ctx, order)
		return nil, &PersistenceError{Phase: PhaseStockUpdate, Err: err}
	}

	order.StockApplied = true
	if uerr := e.update(ctx, order); uerr != nil {
		// The decrement itself succeeded; the flag only short-circuits
		// reconciliation replays, which the marker store guards anyway.
		e.logger.Warn("failed to set stock-applied flag",
			zap.String("orderId", order.RowKey), zap.Error(uerr))
	}

	e.publish(ctx, notify.ChannelOrderNotifications, notify.OrderCreated{
		OrderID:      order.RowKey,
		CustomerID:   order.CustomerID,
		CustomerName: customer.DisplayName(),
		ProductName:  order.ProductName,
		Quantity:     order.Quantity,
		TotalPrice:   order.TotalPrice,
		OrderDate:    order.OrderDate,
		Status:       order.Status,
	})
	e.publish(ctx, notify.ChannelStockUpdates, notify.StockUpdated{
		ProductID:     product.RowKey,
		ProductName:   product.ProductName,
		PreviousStock: previousStock,
		NewStock:      newStock,
		UpdatedBy:     StockUpdatedBy,
		UpdateDate:    now,
	})
	e.metrics.Count(ctx, metrics.OrdersCreated, 1)

	e.logger.Info("order created",
		zap.String("orderId", order.RowKey),
		zap.String("productId", order.ProductID),
		zap.Int("quantity", order.Quantity),
		zap.Float64("totalPrice", order.TotalPrice))

	return order, nil
}

// applyStockDecrement persists the stock change and returns the new stock.
// The default path re-writes the whole product read earlier: two round trips
// and no concurrency token, same as the source system. The atomic path is a
// single conditional update.
func (e *Engine) applyStockDecrement(ctx context.Context, product *entity.Product, qty int) (int, error) {
	if e.opts.AtomicStockUpdates {
		return e.decrement(ctx, product.RowKey, qty)
	}

	product.StockAvailable -= qty
	if err := e.update(ctx, product); err != nil {
		product.StockAvailable += qty
		return 0, err
	}
	return product.StockAvailable, nil
}

// enqueueReconcile hands a missed stock decrement to the repair queue.
// Best-effort: the marker table scan remains the operator fallback when even
// this publish fails.
func (e *Engine) enqueueReconcile(ctx context.Context, order *entity.Order) {
	nctx, cancel := context.WithTimeout(ctx, e.opts.NotifyTimeout)
	defer cancel()
	err := e.notifier.Publish(nctx, notify.ChannelStockReconcile, notify.StockReconcile{
		OrderID:   order.RowKey,
		ProductID: order.ProductID,
		Quantity:  order.Quantity,
	})
	if err != nil {
		e.logger.Error("failed to enqueue stock reconciliation",
			zap.String("orderId", order.RowKey), zap.Error(err))
		e.metrics.Count(ctx, metrics.NotifyFailures, 1)
	}
}
