package entities

import (
	"github.com/spieletreff/wachhund/pkg/custom"
)

// Well-known member form field names. The form is otherwise free-form; the
// headers configured in the panel decide which fields exist.
const (
	// FieldTotalAverage is the per-submission overall average.
	FieldTotalAverage = "gesamt_avg"

	// FieldSevenDayAverage is the rolling average over the last seven
	// submissions of the same player. Computed server-side, never taken
	// from the form.
	FieldSevenDayAverage = "sieben_tage_durchschnitt"
)

// Submission is one member performance form submission.
type Submission struct {
	// ID is the sequential ID of the submission.
	ID int `json:"id" bson:"id"`

	// Username is the player the submission is for.
	Username string `json:"username" bson:"username"`

	// SubmittedAt is the time the form was submitted.
	SubmittedAt custom.Datetime `json:"submitted_at" bson:"submitted_at"`

	// Data holds the form fields by header name.
	Data map[string]string `json:"data" bson:"data"`
}
