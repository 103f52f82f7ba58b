package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/abcretail/orderflow/internal/notify"
)

// StockReconciler replays a missed stock decrement for one order.
type StockReconciler interface {
	ReconcileStock(ctx context.Context, orderID string) error
}

// Processor consumes stock-reconcile messages and heals orders whose stock
// decrement never committed.
type Processor struct {
	reconciler StockReconciler
	logger     *zap.Logger
}

func NewProcessor(reconciler StockReconciler, logger *zap.Logger) *Processor {
	return &Processor{
		reconciler: reconciler,
		logger:     logger,
	}
}

// Handle receives an SQS batch event and processes each message. A returned
// error makes the runtime redeliver the batch; repeated failures land the
// message in the DLQ.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			p.logger.Error("reconcile worker error", zap.Error(err))
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg notify.StockReconcile
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if msg.OrderID == "" {
		return fmt.Errorf("message missing order_id: %s", rec.Body)
	}

	p.logger.Info("replaying stock decrement",
		zap.String("orderId", msg.OrderID),
		zap.String("productId", msg.ProductID),
		zap.Int("quantity", msg.Quantity))

	if err := p.reconciler.ReconcileStock(ctx, msg.OrderID); err != nil {
		return fmt.Errorf("reconcile order %s: %w", msg.OrderID, err)
	}
	return nil
}
