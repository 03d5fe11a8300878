package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRosterLoaded     EventType = "roster_loaded"
	EventRosterLoadFailed EventType = "roster_load_failed"
	EventViewChanged      EventType = "view_changed"
	EventChartExported    EventType = "chart_exported"
)

// Event represents something that happened to a view session.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps a new event.
func NewEvent(eventType EventType, sessionID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// RosterLoadedPayload payload.
type RosterLoadedPayload struct {
	Source      string `json:"source"`
	Rows        int    `json:"rows"`
	Rejected    int    `json:"rejected"`
	Departments int    `json:"departments"`
}

// RosterLoadFailedPayload payload.
type RosterLoadFailedPayload struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

// ViewChangedPayload payload.
type ViewChangedPayload struct {
	Action      string `json:"action"`
	Visible     int    `json:"visible"`
	Highlighted int    `json:"highlighted"`
}

// ChartExportedPayload payload.
type ChartExportedPayload struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bytes  int    `json:"bytes"`
}
