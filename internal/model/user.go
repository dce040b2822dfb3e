package model

import "time"

// UserID uniquely identifies a user across the system
type UserID string

// User is a global identity. A user may participate in many games; each
// participation is a separate Player record.
type User struct {
	ID UserID `json:"-"`

	Name string `json:"name"`
	// AuthTokenHash is the bcrypt hash of the auth token issued at signup.
	// The plaintext token is returned to the caller once and never stored.
	AuthTokenHash string `json:"authToken"`
	// MessagingToken is the address notifications are dispatched to.
	MessagingToken string    `json:"messagingToken"`
	Created        time.Time `json:"created"`
}
