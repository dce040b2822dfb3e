package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Lookup errors
	ErrUserNotFound   = errors.New("user not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")

	// Auth errors
	ErrAuthFailed = errors.New("authentication failed")

	// Permission errors
	ErrNotCreator    = errors.New("caller is not the game creator")
	ErrNotYourVictim = errors.New("target is not the caller's assigned victim")

	// Lifecycle errors
	ErrGameOver            = errors.New("game is over")
	ErrGameCodeTaken       = errors.New("game code already taken")
	ErrGameNotRunning      = errors.New("game is not running")
	ErrGameAlreadyStarted  = errors.New("game has already started")
	ErrAlreadyJoined       = errors.New("player already joined this game")
	ErrPlayerNotAlive      = errors.New("player is not alive")
	ErrPlayerNotDying      = errors.New("player is not awaiting death confirmation")
	ErrInsufficientPlayers = errors.New("not enough players to build the victim ring")

	// Storage errors
	ErrCorruptRecord = errors.New("corrupt record")
	ErrContention    = errors.New("transaction retries exhausted")
)

// CorruptError reports a stored record that failed shape validation.
// Kind and Key identify the offending document for operator follow-up.
// It matches ErrCorruptRecord under errors.Is.
type CorruptError struct {
	Kind   string
	Key    string
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt %s record %q: %s", e.Kind, e.Key, e.Reason)
}

func (e *CorruptError) Is(target error) bool {
	return target == ErrCorruptRecord
}
