package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rozgarlabs/portalkit/internal/domain/model"
)

// Analytics ingestion endpoint paths.
const (
	trackPath      = "/analytics/track"
	trackBatchPath = "/analytics/track/batch"
)

// TrackRequest mirrors POST /analytics/track.
type TrackRequest struct {
	Event      string         `json:"event"`
	Properties map[string]any `json:"properties"`
	UserID     string         `json:"user_id,omitempty"`
	SessionID  string         `json:"session_id,omitempty"`
	Timestamp  string         `json:"timestamp,omitempty"`
}

// batchRequest mirrors POST /analytics/track/batch.
type batchRequest struct {
	Events []TrackRequest `json:"events"`
}

// EncodeEvent converts a domain event to its wire shape. The event type and
// page path travel inside properties, matching the ingestion schema.
func EncodeEvent(e model.Event) TrackRequest {
	props := make(map[string]any, len(e.Properties)+2)
	for k, v := range e.Properties {
		props[k] = v
	}
	props["event_type"] = string(e.Type)
	if e.Page != "" {
		props["page_url"] = e.Page
	}
	return TrackRequest{
		Event:      e.Name,
		Properties: props,
		UserID:     e.UserID,
		SessionID:  e.SessionID,
		Timestamp:  e.Timestamp.UTC().Format(time.RFC3339),
	}
}

// Track posts a single event. Used by the periodic flush path.
func (c *Client) Track(ctx context.Context, req TrackRequest) error {
	resp, err := c.Do(ctx, http.MethodPost, trackPath, req, "")
	if err != nil {
		return err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status %d", ErrIngestRejected, resp.StatusCode)
	}
	return nil
}

// TrackBatch posts a whole batch in one call. Used by the teardown
// fire-and-forget path.
func (c *Client) TrackBatch(ctx context.Context, reqs []TrackRequest) error {
	resp, err := c.Do(ctx, http.MethodPost, trackBatchPath, batchRequest{Events: reqs}, "")
	if err != nil {
		return err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status %d", ErrIngestRejected, resp.StatusCode)
	}
	return nil
}
