package analytics

import (
	"context"
	"fmt"

	"github.com/rozgarlabs/portalkit/internal/adapters/rest"
	"github.com/rozgarlabs/portalkit/internal/domain/model"
)

// restSink delivers events over the portal REST transport. The regular
// flush path posts events one at a time to the single-event endpoint; the
// teardown path posts the whole batch in one call.
type restSink struct {
	api *rest.Client
}

// NewRestSink wraps a backend client as a delivery sink.
func NewRestSink(api *rest.Client) *restSink { //nolint:revive // unexported-return: callers only need the Sink interface
	return &restSink{api: api}
}

// Deliver sends events sequentially. The first failure aborts the batch so
// the flusher requeues it whole; order within the batch is preserved.
func (s *restSink) Deliver(ctx context.Context, events []model.Event) error {
	for i := range events {
		if err := s.api.Track(ctx, rest.EncodeEvent(events[i])); err != nil {
			return fmt.Errorf("deliver event %d of %d: %w", i+1, len(events), err)
		}
	}
	return nil
}

// DeliverFinal sends the whole batch in a single fire-and-forget call.
func (s *restSink) DeliverFinal(ctx context.Context, events []model.Event) error {
	reqs := make([]rest.TrackRequest, len(events))
	for i := range events {
		reqs[i] = rest.EncodeEvent(events[i])
	}
	return s.api.TrackBatch(ctx, reqs)
}
