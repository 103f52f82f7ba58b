// Package orders implements the order lifecycle: creation with stock
// check-and-decrement, edits, status transitions, quotes, and the
// reconciliation replay for the one inconsistent state the flow allows.
package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abcretail/orderflow/internal/metrics"
	"github.com/abcretail/orderflow/internal/reconcile"
)

// EntityStore is the partition/row-keyed record store the engine reads and
// writes. No transactions span records.
type EntityStore interface {
	Get(ctx context.Context, partition, id string, out interface{}) (bool, error)
	GetAll(ctx context.Context, partition string, out interface{}) error
	Insert(ctx context.Context, item interface{}) error
	Update(ctx context.Context, item interface{}) error
	Delete(ctx context.Context, partition, id string) error
	DecrementStock(ctx context.Context, productID string, qty int) (int, error)
}

// Notifier publishes serialized events on named channels, at-least-once.
type Notifier interface {
	Publish(ctx context.Context, channel string, payload interface{}) error
}

// Metrics emits best-effort operational counters.
type Metrics interface {
	Count(ctx context.Context, name string, value float64)
}

// Markers guards stock-decrement replays so a repair never double-decrements.
type Markers interface {
	Claim(ctx context.Context, orderID, productID string, quantity int) (bool, error)
	Get(ctx context.Context, orderID string) (*reconcile.Record, error)
	MarkDone(ctx context.Context, orderID string) error
	MarkFailed(ctx context.Context, orderID, note string) error
}

// Opts tunes engine behavior. The zero value reproduces the source system:
// permissive status writes and a check-then-act stock decrement with its
// known race window.
type Opts struct {
	// StrictTransitions rejects status writes that violate the
	// Submitted -> Processing -> Completed / Cancelled adjacency.
	StrictTransitions bool
	// AtomicStockUpdates replaces the separate read and overwrite round
	// trips with a single conditional decrement.
	AtomicStockUpdates bool
	StoreTimeout       time.Duration
	NotifyTimeout      time.Duration
}

// Engine orchestrates the order lifecycle over injected collaborators.
type Engine struct {
	store    EntityStore
	notifier Notifier
	metrics  Metrics
	markers  Markers
	logger   *zap.Logger
	opts     Opts
	nowFunc  func() time.Time
	newID    func() string
}

func NewEngine(store EntityStore, notifier Notifier, m Metrics, markers Markers, logger *zap.Logger, opts Opts) *Engine {
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 5 * time.Second
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 3 * time.Second
	}
	return &Engine{
		store:    store,
		notifier: notifier,
		metrics:  m,
		markers:  markers,
		logger:   logger,
		opts:     opts,
		nowFunc:  time.Now,
		newID:    uuid.NewString,
	}
}

// Store calls run under the configured per-call budget.

func (e *Engine) get(ctx context.Context, partition, id string, out interface{}) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.StoreTimeout)
	defer cancel()
	return e.store.Get(ctx, partition, id, out)
}

func (e *Engine) getAll(ctx context.Context, partition string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, e.opts.StoreTimeout)
	defer cancel()
	return e.store.GetAll(ctx, partition, out)
}

func (e *Engine) insert(ctx context.Context, item interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, e.opts.StoreTimeout)
	defer cancel()
	return e.store.Insert(ctx, item)
}

func (e *Engine) update(ctx context.Context, item interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, e.opts.StoreTimeout)
	defer cancel()
	return e.store.Update(ctx, item)
}

func (e *Engine) delete(ctx context.Context, partition, id string) error {
	ctx, cancel := context.WithTimeout(ctx, e.opts.StoreTimeout)
	defer cancel()
	return e.store.Delete(ctx, partition, id)
}

func (e *Engine) decrement(ctx context.Context, productID string, qty int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.StoreTimeout)
	defer cancel()
	return e.store.DecrementStock(ctx, productID, qty)
}

// publish sends an event best-effort. A failed or timed-out send is logged
// and counted; it never propagates to the caller, because the state change
// it announces has already been committed.
func (e *Engine) publish(ctx context.Context, channel string, payload interface{}) {
	nctx, cancel := context.WithTimeout(ctx, e.opts.NotifyTimeout)
	defer cancel()
	if err := e.notifier.Publish(nctx, channel, payload); err != nil {
		e.logger.Error("notification failed",
			zap.String("channel", channel),
			zap.Error(err))
		e.metrics.Count(ctx, metrics.NotifyFailures, 1)
	}
}
