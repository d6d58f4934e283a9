package messaging

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/royalty-ledger/internal/domain"
	"github.com/feral-file/royalty-ledger/internal/logger"
)

// Dispatcher decouples event emission from the ledger's commit path
//
//go:generate mockgen -source=dispatcher.go -destination=../mocks/dispatcher.go -package=mocks -mock_names=Dispatcher=MockDispatcher
type Dispatcher interface {
	// Dispatch queues events for publishing in the given order
	Dispatch(ctx context.Context, events ...*domain.LedgerEvent)
	// Close drains queued events and closes the underlying publisher
	Close()
}

// asyncDispatcher publishes through a single-worker pool so the broker
// sees events in commit order, with exponential-backoff retry per event
type asyncDispatcher struct {
	publisher  Publisher
	pool       pond.Pool
	maxElapsed time.Duration
}

// NewAsyncDispatcher creates a dispatcher that publishes events
// asynchronously while preserving dispatch order
func NewAsyncDispatcher(pub Publisher, maxElapsed time.Duration) Dispatcher {
	if maxElapsed == 0 {
		maxElapsed = 30 * time.Second
	}
	return &asyncDispatcher{
		publisher: pub,
		// Single worker: ordering across sales matters more than throughput here
		pool:       pond.NewPool(1),
		maxElapsed: maxElapsed,
	}
}

// Dispatch queues events for publishing in the given order
func (d *asyncDispatcher) Dispatch(ctx context.Context, events ...*domain.LedgerEvent) {
	// The request context may be gone by the time the worker runs;
	// keep its values but detach the cancellation
	ctx = context.WithoutCancel(ctx)

	d.pool.Submit(func() {
		for _, event := range events {
			d.publishWithRetry(ctx, event)
		}
	})
}

// publishWithRetry publishes one event, retrying transient broker
// failures. A permanently failed event is logged and dropped; the ledger
// state it describes has already committed.
func (d *asyncDispatcher) publishWithRetry(ctx context.Context, event *domain.LedgerEvent) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = d.maxElapsed

	operation := func() error {
		return d.publisher.PublishEvent(ctx, event)
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("asset_id", event.AssetID.String()),
		)
	}
}

// Close drains queued events and closes the underlying publisher
func (d *asyncDispatcher) Close() {
	d.pool.StopAndWait()
	d.publisher.Close()
}
