package entities

import (
	"github.com/spieletreff/wachhund/pkg/custom"
)

// InviteKey is a single-use registration key for the web panel.
type InviteKey struct {
	// Code is the key itself.
	Code string `json:"code" bson:"code"`

	// CreatedBy is the panel user that created the key.
	CreatedBy string `json:"created_by" bson:"created_by"`

	// CreatedAt is the time the key was created.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`

	// Note is an optional free-text note.
	Note string `json:"note" bson:"note"`

	// Used is whether the key has been redeemed.
	Used bool `json:"used" bson:"used"`

	// UsedBy is the username that redeemed the key.
	UsedBy string `json:"used_by,omitempty" bson:"used_by,omitempty"`

	// UsedAt is the time the key was redeemed.
	UsedAt *custom.Datetime `json:"used_at" bson:"used_at"`

	// Revoked is whether the key has been revoked. Used keys cannot be
	// revoked.
	Revoked bool `json:"revoked" bson:"revoked"`
}

// Usable reports whether the key can still be redeemed.
func (k *InviteKey) Usable() bool {
	return !k.Used && !k.Revoked
}
