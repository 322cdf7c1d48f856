package entities

import (
	"strings"

	"github.com/spieletreff/wachhund/pkg/custom"
)

// Ticket statuses. The status field is free text; claimed tickets carry a
// "Geclaimt von <name>" status built with StatusClaimedBy.
const (
	// StatusOpen is the status of an open ticket.
	StatusOpen = "offen"

	// StatusClosed is the status of a closed ticket.
	StatusClosed = "geschlossen"
)

// statusClaimedPrefix starts every claimed status.
const statusClaimedPrefix = "Geclaimt von "

// StatusClaimedBy returns the status string for a ticket claimed by the given
// display name.
func StatusClaimedBy(displayName string) string {
	return statusClaimedPrefix + displayName
}

// StatusIsClaimed reports whether the given status marks a claimed ticket.
func StatusIsClaimed(status string) bool {
	return strings.HasPrefix(status, statusClaimedPrefix)
}

// Ticket is a single support request with its own channel.
//
// The field names and JSON keys are a contract: the web panel and older
// tooling read the tickets file directly.
type Ticket struct {
	// TicketID is the number of the ticket. Issued by the counter, never
	// reused.
	TicketID int `json:"ticket_id" bson:"ticket_id"`

	// User is the username of the user that opened the ticket.
	User string `json:"user" bson:"user"`

	// UserID is the Discord ID of the user that opened the ticket.
	UserID string `json:"user_id" bson:"user_id"`

	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id,omitempty" bson:"guild_id,omitempty"`

	// ChannelID is the ID of the channel created for the ticket.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// ChannelName is the display name of the ticket channel at creation
	// time ("ticket-<slug>-<id>").
	ChannelName string `json:"channel_name" bson:"channel_name"`

	// Category is the support category chosen when the ticket was opened.
	Category string `json:"category" bson:"category"`

	// Status is the current lifecycle status ("offen", "geschlossen",
	// "Geclaimt von <name>").
	Status string `json:"status" bson:"status"`

	// WelcomeMessageID is the ID of the welcome message carrying the action
	// buttons. Persisted so the buttons can be re-rendered after a restart.
	WelcomeMessageID string `json:"welcome_message_id,omitempty" bson:"welcome_message_id,omitempty"`

	// CreatedAt is the time that the ticket was created. Immutable.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`
}
