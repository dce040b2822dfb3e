package game

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/assassin-game/assassin-go/internal/dependencies/clock"
	"github.com/assassin-game/assassin-go/internal/dependencies/random"
	"github.com/assassin-game/assassin-go/internal/model"
	"github.com/assassin-game/assassin-go/internal/services/notify"
	"github.com/assassin-game/assassin-go/internal/services/ring"
	"github.com/assassin-game/assassin-go/internal/storage"
)

const (
	// GameCodeLength is the length of generated game codes
	GameCodeLength = 6
	// GameCodeAlphabet is the characters used in game codes (avoid confusing chars)
	GameCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Controller manages game lifecycle: creation, configuration and the
// NOT_STARTED -> RUNNING -> OVER transitions.
type Controller struct {
	store    storage.Store
	clock    clock.Clock
	random   random.Random
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewController creates a new game controller
func NewController(
	store storage.Store,
	clk clock.Clock,
	rnd random.Random,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		store:    store,
		clock:    clk,
		random:   rnd,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateGame allocates a fresh code and writes a NOT_STARTED game.
// Codes are unique among games that are still in flight; a code held by
// an OVER game is reclaimed, which discards the finished game's roster.
func (c *Controller) CreateGame(ctx context.Context, creator model.UserID, name string, end time.Time) (*model.Game, error) {
	var game *model.Game
	for {
		code := model.GameCode(c.random.String(GameCodeLength, GameCodeAlphabet))
		game = &model.Game{
			Code:    code,
			Name:    name,
			State:   model.GameStateNotStarted,
			Creator: creator,
			Created: c.clock.Now(),
			End:     end,
		}

		// Check and write are one step; two creates drawing the same
		// code cannot both claim it.
		err := c.store.CreateGame(ctx, game)
		if err == nil {
			break
		}
		if !errors.Is(err, model.ErrGameCodeTaken) {
			return nil, err
		}

		existing, err := c.store.GetGame(ctx, code)
		if err != nil {
			if errors.Is(err, model.ErrGameNotFound) || errors.Is(err, model.ErrCorruptRecord) {
				// Occupant vanished or is unreadable; pick another code
				continue
			}
			return nil, err
		}
		if existing.State != model.GameStateOver {
			continue
		}

		// An OVER game's code is reclaimed along with its roster
		if err := c.store.DeletePlayers(ctx, code); err != nil {
			return nil, err
		}
		if err := c.store.SaveGame(ctx, game); err != nil {
			return nil, err
		}
		break
	}

	c.logger.Info("game created",
		slog.String("code", string(game.Code)),
		slog.String("creator", string(creator)),
	)
	return game, nil
}

// GetGame retrieves a game by code
func (c *Controller) GetGame(ctx context.Context, code model.GameCode) (*model.Game, error) {
	return c.store.GetGame(ctx, code)
}

// UpdateConfig applies creator-adjustable changes to a game that is not
// over yet.
func (c *Controller) UpdateConfig(ctx context.Context, code model.GameCode, caller model.UserID, update model.GameConfigUpdate) (*model.Game, error) {
	var updated *model.Game
	err := c.store.UpdateGame(ctx, code, []model.UserID{}, func(txn *storage.GameTxn) error {
		if txn.Game.Creator != caller {
			return model.ErrNotCreator
		}
		if txn.Game.State == model.GameStateOver {
			return model.ErrGameOver
		}
		if update.Name != nil {
			txn.Game.Name = *update.Name
		}
		if update.End != nil {
			txn.Game.End = *update.End
		}
		updated = txn.Game
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Start transitions NOT_STARTED -> RUNNING, promoting every JOINING
// player to ALIVE and building the initial victim ring in the same
// transaction.
func (c *Controller) Start(ctx context.Context, code model.GameCode, caller model.UserID) (*model.Game, error) {
	var started *model.Game
	assignments := map[model.UserID]model.UserID{}

	err := c.store.UpdateGame(ctx, code, nil, func(txn *storage.GameTxn) error {
		if txn.Game.Creator != caller {
			return model.ErrNotCreator
		}
		switch txn.Game.State {
		case model.GameStateNotStarted:
		case model.GameStateRunning:
			return model.ErrGameAlreadyStarted
		default:
			return model.ErrGameOver
		}

		var joining []*model.Player
		for _, p := range txn.Players {
			if p.State == model.PlayerStateJoining {
				joining = append(joining, p)
			}
		}
		sort.Slice(joining, func(i, j int) bool { return joining[i].UserID < joining[j].UserID })

		if err := ring.Build(c.random, joining); err != nil {
			return err
		}

		txn.Game.State = model.GameStateRunning
		started = txn.Game

		clear(assignments)
		for _, p := range joining {
			assignments[p.UserID] = *p.Victim
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("game started",
		slog.String("code", string(code)),
		slog.Int("players", len(assignments)),
	)
	for recipient, victim := range assignments {
		c.notifyVictimAssigned(ctx, code, recipient, victim)
	}
	return started, nil
}

// Finish transitions RUNNING -> OVER. The ring is frozen from here on
// and the game's code becomes reclaimable.
func (c *Controller) Finish(ctx context.Context, code model.GameCode, caller model.UserID) (*model.Game, error) {
	var finished *model.Game
	err := c.store.UpdateGame(ctx, code, []model.UserID{}, func(txn *storage.GameTxn) error {
		if txn.Game.Creator != caller {
			return model.ErrNotCreator
		}
		switch txn.Game.State {
		case model.GameStateRunning:
		case model.GameStateNotStarted:
			return model.ErrGameNotRunning
		default:
			return model.ErrGameOver
		}
		txn.Game.State = model.GameStateOver
		finished = txn.Game
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("game finished", slog.String("code", string(code)))
	return finished, nil
}

func (c *Controller) notifyVictimAssigned(ctx context.Context, code model.GameCode, recipient, victim model.UserID) {
	victimName := ""
	if u, err := c.store.GetUser(ctx, victim); err == nil {
		victimName = u.Name
	}
	c.notifier.Notify(ctx, notify.Event{
		Recipient:  recipient,
		Kind:       notify.KindVictimAssigned,
		GameCode:   code,
		VictimName: victimName,
	})
}
