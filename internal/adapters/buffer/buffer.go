// Package buffer holds queued analytics events between flush cycles.
//
// The buffer is a bounded FIFO. Draining copies the whole slice out and
// clears it in one critical section, so events enqueued while a delivery is
// in flight are neither lost nor double-sent. Failed batches are requeued at
// the head so they are retried before newer events.
package buffer

import (
	"context"
	"sync"

	"github.com/rozgarlabs/portalkit/internal/domain/model"
	"github.com/rozgarlabs/portalkit/pkg/metrics"
)

// Default buffer configuration constants.
const (
	defaultCapacity  = 1_000
	defaultThreshold = 10
)

// Event is the payload type flowing through the buffer.
type Event = model.Event

// Buffer is a bounded in-memory FIFO of events with an early-flush signal.
type Buffer struct {
	mu        sync.Mutex
	events    []Event
	capacity  int
	threshold int
	wake      chan struct{}
	closed    bool
}

// New creates a buffer with configuration options.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		capacity:  defaultCapacity,
		threshold: defaultThreshold,
		wake:      make(chan struct{}, 1),
	}

	// Apply all options
	for _, opt := range opts {
		opt(b)
	}

	metrics.UpdateBufferCapacity(b.capacity)
	metrics.UpdateBufferSize(0)
	metrics.UpdateBufferUtilization(0.0)

	return b
}

// Enqueue appends an event. Returns false if the buffer is closed or full.
// Reaching the configured threshold fires the wake signal so the flusher
// delivers early instead of waiting for the timer.
func (b *Buffer) Enqueue(_ context.Context, e Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || len(b.events) >= b.capacity {
		metrics.RecordEventDropped()
		return false
	}

	b.events = append(b.events, e)
	metrics.RecordEventQueued()
	b.updateGauges()

	if len(b.events) >= b.threshold {
		b.signal()
	}
	return true
}

// DrainAll removes and returns every queued event, preserving order. The
// returned slice is owned by the caller.
func (b *Buffer) DrainAll() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.events) == 0 {
		return nil
	}
	drained := b.events
	b.events = nil
	b.updateGauges()
	return drained
}

// Requeue puts a failed batch back at the head of the buffer, ahead of
// anything enqueued since the drain, preserving order within the batch.
// Events that no longer fit under capacity are dropped from the tail of the
// combined queue.
func (b *Buffer) Requeue(batch []Event) {
	if len(batch) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	combined := make([]Event, 0, len(batch)+len(b.events))
	combined = append(combined, batch...)
	combined = append(combined, b.events...)
	if len(combined) > b.capacity {
		for range combined[b.capacity:] {
			metrics.RecordEventDropped()
		}
		combined = combined[:b.capacity]
	}
	b.events = combined
	metrics.RecordEventsRequeued(len(batch))
	b.updateGauges()
}

// Len returns the current number of buffered events.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Wake returns the early-flush signal channel.
func (b *Buffer) Wake() <-chan struct{} {
	return b.wake
}

// Close stops accepting new events. Already-buffered events stay drainable.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// IsClosed reports whether the buffer has been closed.
func (b *Buffer) IsClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// signal fires the wake channel without blocking. Held under b.mu.
func (b *Buffer) signal() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// updateGauges refreshes buffer gauges. Held under b.mu.
func (b *Buffer) updateGauges() {
	metrics.UpdateBufferSize(len(b.events))
	metrics.UpdateBufferUtilization(float64(len(b.events)) / float64(b.capacity))
}
