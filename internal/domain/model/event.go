// Package model contains domain models passed between layers.
package model

import "time"

// EventType classifies analytics events.
type EventType string

// Event types recognized by the portal ingestion backend.
const (
	EventPageView       EventType = "page_view"
	EventCustom         EventType = "custom"
	EventJobInteraction EventType = "job_interaction"
	EventUserAuth       EventType = "user_auth"
	EventFormSubmission EventType = "form_submission"
	EventSearch         EventType = "search"
	EventSessionStart   EventType = "session_start"
)

// Event represents a single behavioral event captured by the analytics client.
// Events are immutable once queued; Properties must not be mutated after
// construction.
type Event struct {
	Type       EventType      // event classification
	Name       string         // event name, e.g. "button_click"
	Page       string         // page path the event was captured on
	SessionID  string         // per-process session identifier
	UserID     string         // durable pseudo-anonymous visitor identifier
	Timestamp  time.Time      // capture time, UTC
	Properties map[string]any // additional context, opaque to the pipeline
}

// NewEvent builds an immutable event with a defensive copy of properties and
// a UTC capture timestamp.
func NewEvent(t EventType, name, page, sessionID, userID string, props map[string]any) Event {
	copied := make(map[string]any, len(props))
	for k, v := range props {
		copied[k] = v
	}
	return Event{
		Type:       t,
		Name:       name,
		Page:       page,
		SessionID:  sessionID,
		UserID:     userID,
		Timestamp:  time.Now().UTC(),
		Properties: copied,
	}
}
