package entities

import (
	"github.com/spieletreff/wachhund/pkg/custom"
)

// Absence is an absence announcement submitted through the web panel. The bot
// picks up unposted entries and announces them in the configured channel.
type Absence struct {
	// ID is the sequential ID of the absence.
	ID int `json:"id" bson:"id"`

	// UserDisplay is the display name of the absent member.
	UserDisplay string `json:"user_display" bson:"user_display"`

	// StartDate is the first day of the absence ("YYYY-MM-DD").
	StartDate string `json:"start_date" bson:"start_date"`

	// EndDate is the last day of the absence ("YYYY-MM-DD").
	EndDate string `json:"end_date" bson:"end_date"`

	// Reason is the free-text reason for the absence.
	Reason string `json:"reason" bson:"reason"`

	// SubmittedBy is the panel user that submitted the absence.
	SubmittedBy string `json:"submitted_by" bson:"submitted_by"`

	// CreatedAt is the time the absence was submitted.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`

	// Posted is whether the absence has been announced in Discord.
	Posted bool `json:"posted" bson:"posted"`

	// PostedAt is the time the announcement was posted.
	PostedAt *custom.Datetime `json:"posted_at" bson:"posted_at"`

	// ChannelID is the channel the announcement was posted to.
	ChannelID string `json:"channel_id,omitempty" bson:"channel_id,omitempty"`

	// MessageID is the ID of the announcement message.
	MessageID string `json:"message_id,omitempty" bson:"message_id,omitempty"`
}
