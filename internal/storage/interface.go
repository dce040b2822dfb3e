package storage

import (
	"context"

	"github.com/assassin-game/assassin-go/internal/model"
)

// GameTxn is the view of a multi-record transaction over one game. The
// callback passed to Store.UpdateGame mutates these records in place;
// everything present at return is written back in one atomic commit.
//
// New players may be added to Players inside the callback (mid-game
// joins); deleting map entries is not supported, records leave the ring
// by state transition instead.
type GameTxn struct {
	Game    *model.Game
	Players map[model.UserID]*model.Player
}

// Store defines the interface for the document store backing the game.
//
// Single-record reads and writes are atomic. UpdateGame is the only
// multi-record primitive: it reads the named records, applies the
// callback, and commits all of them only if none changed in the interim,
// retrying the whole read-compute-write cycle a bounded number of times
// before giving up with model.ErrContention. Every record returned by a
// read has passed shape validation; corrupt documents surface as
// model.CorruptError instead of partially decoded objects.
type Store interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	// CreateGame writes the game only if no record holds its code,
	// failing with model.ErrGameCodeTaken otherwise. The check and the
	// write are one atomic step, so concurrent creates drawing the same
	// code cannot overwrite each other.
	CreateGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, code model.GameCode) (*model.Game, error)
	// DeletePlayers removes every player of a game, freeing the code's
	// player collection for reuse after the game is over.
	DeletePlayers(ctx context.Context, code model.GameCode) error

	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, code model.GameCode, id model.UserID) (*model.Player, error)
	// ListPlayers returns every player of the game. A single malformed
	// record aborts the whole listing; a partial roster view would let
	// callers corrupt the victim ring.
	ListPlayers(ctx context.Context, code model.GameCode) ([]*model.Player, error)

	// UpdateGame runs fn as one optimistic transaction over the game
	// record and the players named by ids; nil ids means every player of
	// the game. An error from fn aborts the transaction with nothing
	// written and is returned unchanged.
	UpdateGame(ctx context.Context, code model.GameCode, ids []model.UserID, fn func(txn *GameTxn) error) error
}
