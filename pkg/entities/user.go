package entities

import (
	"github.com/spieletreff/wachhund/pkg/custom"
)

// Role is a panel role.
type Role string

// Panel roles, in decreasing order of privilege.
const (
	RoleAdmin   Role = "admin"
	RoleSupport Role = "support"
	RoleUser    Role = "user"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleSupport, RoleUser:
		return true
	default:
		return false
	}
}

// User is a web panel account. Accounts with the admin or support role are
// also the staff directory for ticket channel permissions: their DiscordID
// gets visibility on new ticket channels.
type User struct {
	// ID is the unique ID of the user.
	ID string `json:"id" bson:"id"`

	// Username is the unique login name.
	Username string `json:"username" bson:"username"`

	// PasswordHash is the bcrypt hash of the password. Never serialized to
	// JSON.
	PasswordHash string `json:"-" bson:"password_hash"`

	// DiscordID is the Discord user ID linked to the account. Optional and
	// not guaranteed to be numeric; callers must validate before use.
	DiscordID string `json:"discord_id,omitempty" bson:"discord_id,omitempty"`

	// Role is the panel role.
	Role Role `json:"role" bson:"role"`

	// GameKeys is a free-text block of game keys assigned to the user.
	GameKeys string `json:"game_keys,omitempty" bson:"game_keys,omitempty"`

	// CreatedAt is the time the account was created.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`
}
