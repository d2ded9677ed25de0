// Package flusher drives delivery of buffered analytics events.
//
// Delivery happens on a fixed timer, early when the buffer signals its
// threshold, and one final time at shutdown on a context detached from the
// caller so teardown cannot cancel it mid-send.
package flusher

import (
	"context"
	"fmt"
	"time"

	"github.com/rozgarlabs/portalkit/internal/adapters/buffer"
	"github.com/rozgarlabs/portalkit/internal/domain/model"
	"github.com/rozgarlabs/portalkit/pkg/logger"
	"github.com/rozgarlabs/portalkit/pkg/metrics"
)

// Default flusher configuration constants.
const (
	defaultInterval        = 5 * time.Second
	defaultTeardownTimeout = 2 * time.Second
)

// Sink delivers drained batches to the ingestion backend.
type Sink interface {
	// Deliver sends a batch on the regular flush path. A non-nil error means
	// the whole batch must be retried.
	Deliver(ctx context.Context, events []model.Event) error

	// DeliverFinal sends the last batch at teardown, fire-and-forget style.
	DeliverFinal(ctx context.Context, events []model.Event) error
}

// Flusher owns the periodic flush loop for a buffer.
type Flusher struct {
	buffer *buffer.Buffer
	sink   Sink

	interval        time.Duration
	teardownTimeout time.Duration

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// New creates a flusher with configuration options.
func New(buf *buffer.Buffer, sink Sink, opts ...Option) *Flusher {
	f := &Flusher{
		buffer:          buf,
		sink:            sink,
		interval:        defaultInterval,
		teardownTimeout: defaultTeardownTimeout,
		shutdown:        make(chan struct{}),
		done:            make(chan struct{}),
		logger:          logger.Get().Named("flusher"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Run starts the flush loop until ctx is canceled or Shutdown is called.
func (f *Flusher) Run(ctx context.Context) {
	defer close(f.done)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-f.shutdown:
			return
		case <-ticker.C:
			f.Flush(ctx)
		case <-f.buffer.Wake():
			f.Flush(ctx)
		}
	}
}

// Flush drains the buffer and delivers the batch. On failure the batch is
// requeued at the head; a slow or failed flush never blocks the next tick.
func (f *Flusher) Flush(ctx context.Context) {
	batch := f.buffer.DrainAll()
	if len(batch) == 0 {
		return
	}

	metrics.RecordFlush(len(batch))
	start := time.Now()
	err := f.sink.Deliver(ctx, batch)
	metrics.RecordFlushLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordFlushError()
		f.buffer.Requeue(batch)
		f.logger.Warn(ctx, "batch delivery failed, requeued",
			logger.Int("events", len(batch)),
			logger.Error(err),
		)
		return
	}

	metrics.RecordEventsDelivered(len(batch))
	f.logger.Debug(ctx, "batch delivered", logger.Int("events", len(batch)))
}

// Shutdown stops the loop and performs the final best-effort delivery. The
// final send runs on a context detached from ctx's cancellation, bounded
// only by the teardown timeout, and falls back to the regular delivery path
// if the fire-and-forget path reports failure.
func (f *Flusher) Shutdown(ctx context.Context) error {
	select {
	case <-f.shutdown:
		// already shut down
	default:
		close(f.shutdown)
	}

	select {
	case <-f.done:
	case <-ctx.Done():
		f.logger.Warn(ctx, "flusher loop did not stop in time")
	}

	f.buffer.Close()
	batch := f.buffer.DrainAll()
	if len(batch) == 0 {
		return nil
	}

	metrics.RecordFlush(len(batch))
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.teardownTimeout)
	defer cancel()

	if err := f.sink.DeliverFinal(sendCtx, batch); err != nil {
		// Beacon path unavailable; try the standard path once.
		if err := f.sink.Deliver(sendCtx, batch); err != nil {
			metrics.RecordFlushError()
			return fmt.Errorf("final flush failed: %w", err)
		}
	}
	metrics.RecordEventsDelivered(len(batch))
	return nil
}
