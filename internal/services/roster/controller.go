package roster

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/assassin-game/assassin-go/internal/dependencies/random"
	"github.com/assassin-game/assassin-go/internal/model"
	"github.com/assassin-game/assassin-go/internal/services/notify"
	"github.com/assassin-game/assassin-go/internal/services/ring"
	"github.com/assassin-game/assassin-go/internal/storage"
)

// Controller manages game membership and victim reassignment requests.
type Controller struct {
	store    storage.Store
	random   random.Random
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewController creates a new roster controller
func NewController(
	store storage.Store,
	rnd random.Random,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		store:    store,
		random:   rnd,
		notifier: notifier,
		logger:   logger,
	}
}

// Join adds the user to the game. Before the game starts the player
// waits in JOINING; joining a running game splices the player straight
// into the victim ring as ALIVE.
func (c *Controller) Join(ctx context.Context, code model.GameCode, userID model.UserID) (*model.Player, error) {
	var joined *model.Player
	var assignedVictim *model.UserID

	err := c.store.UpdateGame(ctx, code, nil, func(txn *storage.GameTxn) error {
		if txn.Game.State == model.GameStateOver {
			return model.ErrGameOver
		}
		if _, ok := txn.Players[userID]; ok {
			return model.ErrAlreadyJoined
		}

		p := &model.Player{
			GameCode: code,
			UserID:   userID,
			State:    model.PlayerStateJoining,
		}
		txn.Players[userID] = p

		if txn.Game.State == model.GameStateRunning {
			if err := ring.Insert(c.random, txn.Players, p); err != nil {
				return err
			}
			victimID := *p.Victim
			assignedVictim = &victimID
		}
		joined = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("game", string(code)),
		slog.String("user", string(userID)),
		slog.String("state", string(joined.State)),
	)
	if assignedVictim != nil {
		c.notifyVictimAssigned(ctx, code, userID, *assignedVictim)
	}
	return joined, nil
}

// GetPlayer retrieves one player record
func (c *Controller) GetPlayer(ctx context.Context, code model.GameCode, userID model.UserID) (*model.Player, error) {
	if _, err := c.store.GetGame(ctx, code); err != nil {
		return nil, err
	}
	return c.store.GetPlayer(ctx, code, userID)
}

// ListAlivePlayers returns the players still standing, in id order.
func (c *Controller) ListAlivePlayers(ctx context.Context, code model.GameCode) ([]*model.Player, error) {
	if _, err := c.store.GetGame(ctx, code); err != nil {
		return nil, err
	}
	players, err := c.store.ListPlayers(ctx, code)
	if err != nil {
		return nil, err
	}
	alive := make([]*model.Player, 0, len(players))
	for _, p := range players {
		if p.State == model.PlayerStateAlive {
			alive = append(alive, p)
		}
	}
	return alive, nil
}

// RequestNewVictim flags the player for reassignment in the next
// shuffle. The flag is a request, not a promise; the current assignment
// stands until the creator shuffles.
func (c *Controller) RequestNewVictim(ctx context.Context, code model.GameCode, userID model.UserID) error {
	return c.store.UpdateGame(ctx, code, []model.UserID{userID}, func(txn *storage.GameTxn) error {
		if txn.Game.State != model.GameStateRunning {
			return model.ErrGameNotRunning
		}
		p := txn.Players[userID]
		if p.State != model.PlayerStateAlive {
			return model.ErrPlayerNotAlive
		}
		p.WantsNewVictim = true
		return nil
	})
}

// ShuffleVictims reassigns every flagged player to a new victim and
// clears the flags. Only the game's creator may shuffle. Flagged
// players that cannot be moved, e.g. in a two-player ring, keep their
// current victim with the flag cleared.
func (c *Controller) ShuffleVictims(ctx context.Context, code model.GameCode, caller model.UserID) error {
	assignments := map[model.UserID]model.UserID{}

	err := c.store.UpdateGame(ctx, code, nil, func(txn *storage.GameTxn) error {
		if txn.Game.Creator != caller {
			return model.ErrNotCreator
		}
		if txn.Game.State != model.GameStateRunning {
			return model.ErrGameNotRunning
		}

		clear(assignments)
		for _, id := range flaggedIDs(txn.Players) {
			p := txn.Players[id]
			if !p.InRing() {
				p.WantsNewVictim = false
				continue
			}
			if err := ring.Reassign(c.random, txn.Players, id); err != nil {
				if errors.Is(err, model.ErrInsufficientPlayers) {
					p.WantsNewVictim = false
					continue
				}
				return err
			}
			p.WantsNewVictim = false
			assignments[id] = *p.Victim
		}
		return ring.Verify(txn.Players)
	})
	if err != nil {
		return err
	}

	c.logger.Info("victims shuffled",
		slog.String("game", string(code)),
		slog.Int("reassigned", len(assignments)),
	)
	for recipient, victim := range assignments {
		c.notifyVictimAssigned(ctx, code, recipient, victim)
	}
	return nil
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

// flaggedIDs returns ids of players awaiting reassignment, in
// deterministic order so a shuffle is reproducible under a mocked
// random source.
func flaggedIDs(players map[model.UserID]*model.Player) []model.UserID {
	var ids []model.UserID
	for id, p := range players {
		if p.WantsNewVictim {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
