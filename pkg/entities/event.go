package entities

import (
	"github.com/spieletreff/wachhund/pkg/custom"
)

// Lifecycle event types written to the ticket event log.
const (
	EventTicketCreated       = "ticket_created"
	EventTicketClosed        = "ticket_closed"
	EventTicketReopened      = "ticket_reopened"
	EventTicketStatusUpdated = "ticket_status_updated"
)

// Event is one immutable entry in the ticket event log. Entries are only ever
// appended, never changed or removed.
type Event struct {
	// Time is the wall-clock time the event was recorded.
	Time custom.Datetime `json:"time" bson:"time"`

	// EventType is one of the Event* constants.
	EventType string `json:"event_type" bson:"event_type"`

	// Data is the event payload. The shape depends on the event type.
	Data map[string]any `json:"data" bson:"data"`
}
