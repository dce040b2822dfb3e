package model

import "time"

// GameCode is a human-readable identifier for joining games.
// Codes are unique among games that have not yet finished; the code of an
// OVER game may be reclaimed by a new game.
type GameCode string

// GameState represents the lifecycle state of a game
type GameState string

const (
	GameStateNotStarted GameState = "not_started" // Players may join, no ring yet
	GameStateRunning    GameState = "running"     // Victim ring is live
	GameStateOver       GameState = "over"        // Terminal
)

// Game represents one play session
type Game struct {
	Code GameCode `json:"-"`

	Name    string    `json:"name"`
	State   GameState `json:"state"`
	Creator UserID    `json:"creator"`
	Created time.Time `json:"created"`
	// End is the creator's estimate of when the game finishes. Adjustable
	// while the game is not over.
	End time.Time `json:"end"`
}

// GameConfigUpdate carries creator-adjustable fields; nil means unchanged
type GameConfigUpdate struct {
	Name *string
	End  *time.Time
}
