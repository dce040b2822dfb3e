package request

import "time"

// SignUpRequest is the request body for creating a user
type SignUpRequest struct {
	Name           string `json:"name"`
	MessagingToken string `json:"messaging_token,omitempty"`
}

// UpdateUserRequest is the request body for updating a user's profile
type UpdateUserRequest struct {
	Name           *string `json:"name,omitempty"`
	MessagingToken *string `json:"messaging_token,omitempty"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Name string    `json:"name"`
	End  time.Time `json:"end"`
}

// UpdateGameRequest is the request body for updating game config
type UpdateGameRequest struct {
	Name *string    `json:"name,omitempty"`
	End  *time.Time `json:"end,omitempty"`
}

// KillRequest is the request body for reporting a kill
type KillRequest struct {
	Weapon string `json:"weapon"`
}

// DieRequest is the request body for confirming one's own death
type DieRequest struct {
	LastWords string `json:"last_words"`
}
