package orders

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abcretail/orderflow/internal/entity"
	"github.com/abcretail/orderflow/internal/metrics"
	"github.com/abcretail/orderflow/internal/notify"
	"github.com/abcretail/orderflow/internal/reconcile"
)

// ReconcileStock replays the stock decrement for an order that was persisted
// before its product update went through. Safe to call any number of times:
// the StockApplied flag and the claim marker together ensure the decrement
// is applied at most once.
//
// A returned error means the replay should be retried (the worker relies on
// queue redelivery for that).
func (e *Engine) ReconcileStock(ctx context.Context, orderID string) error {
	var order entity.Order
	found, err := e.get(ctx, entity.PartitionOrder, orderID, &order)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if !found {
		e.logger.Warn("reconcile skipped, order not found", zap.String("orderId", orderID))
		return nil
	}
	if order.StockApplied {
		return nil
	}

	claimed, err := e.markers.Claim(ctx, orderID, order.ProductID, order.Quantity)
	if err != nil {
		return fmt.Errorf("claim marker: %w", err)
	}
	if !claimed {
		rec, err := e.markers.Get(ctx, orderID)
		if err != nil {
			return fmt.Errorf("inspect marker: %w", err)
		}
		if rec != nil && rec.Status == reconcile.StatusDone {
			// Decremented by an earlier replay; only the order flag write
			// was lost. Repair it and stop.
			order.StockApplied = true
			if uerr := e.update(ctx, &order); uerr != nil {
				e.logger.Warn("failed to set stock-applied flag during reconcile",
					zap.String("orderId", orderID), zap.Error(uerr))
			}
			return nil
		}
		// IN_PROGRESS or FAILED: the earlier attempt died before the
		// decrement committed. Continue the replay under the same marker.
	}

	newStock, err := e.replayDecrement(ctx, &order)
	if err != nil {
		if merr := e.markers.MarkFailed(ctx, orderID, err.Error()); merr != nil {
			e.logger.Warn("failed to mark reconcile attempt failed",
				zap.String("orderId", orderID), zap.Error(merr))
		}
		return fmt.Errorf("replay decrement: %w", err)
	}

	order.StockApplied = true
	if err := e.update(ctx, &order); err != nil {
		// The decrement is committed, so the marker must still advance to
		// DONE; a retry then lands in the lost-flag branch above instead of
		// decrementing again.
		if merr := e.markers.MarkDone(ctx, orderID); merr != nil {
			e.logger.Warn("failed to mark reconcile done",
				zap.String("orderId", orderID), zap.Error(merr))
		}
		return fmt.Errorf("set stock-applied flag: %w", err)
	}

	if err := e.markers.MarkDone(ctx, orderID); err != nil {
		e.logger.Warn("failed to mark reconcile done",
			zap.String("orderId", orderID), zap.Error(err))
	}

	e.publish(ctx, notify.ChannelStockUpdates, notify.StockUpdated{
		ProductID:     order.ProductID,
		ProductName:   order.ProductName,
		PreviousStock: newStock + order.Quantity,
		NewStock:      newStock,
		UpdatedBy:     "Reconciler",
		UpdateDate:    e.nowFunc().UTC(),
	})
	e.metrics.Count(ctx, metrics.ReconcileRuns, 1)

	e.logger.Info("stock reconciled",
		zap.String("orderId", orderID),
		zap.String("productId", order.ProductID),
		zap.Int("quantity", order.Quantity),
		zap.Int("newStock", newStock))

	return nil
}

func (e *Engine) replayDecrement(ctx context.Context, order *entity.Order) (int, error) {
	if e.opts.AtomicStockUpdates {
		return e.decrement(ctx, order.ProductID, order.Quantity)
	}

	var product entity.Product
	found, err := e.get(ctx, entity.PartitionProduct, order.ProductID, &product)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("product not found: %s", order.ProductID)
	}
	product.StockAvailable -= order.Quantity
	if err := e.update(ctx, &product); err != nil {
		return 0, err
	}
	return product.StockAvailable, nil
}
