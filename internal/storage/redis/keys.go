package redis

import (
	"fmt"

	"github.com/assassin-game/assassin-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "assassin"

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// gameKey returns the Redis key for a Game
func gameKey(code model.GameCode) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, code)
}

// playerKey returns the Redis key for a Player
func playerKey(code model.GameCode, id model.UserID) string {
	return fmt.Sprintf("%s:player:%s:%s", keyPrefix, code, id)
}

// playersIndexKey returns the Redis key for the SET of user ids that hold
// a player record in the game
func playersIndexKey(code model.GameCode) string {
	return fmt.Sprintf("%s:idx:players:%s", keyPrefix, code)
}
