package death

import (
	"context"
	"errors"
	"log/slog"

	"github.com/assassin-game/assassin-go/internal/dependencies/clock"
	"github.com/assassin-game/assassin-go/internal/model"
	"github.com/assassin-game/assassin-go/internal/services/notify"
	"github.com/assassin-game/assassin-go/internal/services/ring"
	"github.com/assassin-game/assassin-go/internal/storage"
)

// maxNeighborRetries bounds re-reads of the victim's own victim. The
// transaction only touches the three records a kill affects, so the
// ring neighbor has to be looked up before the transaction and
// re-checked inside it.
const maxNeighborRetries = 3

// errStaleNeighbor signals that the victim's outbound edge moved
// between the pre-read and the transaction.
var errStaleNeighbor = errors.New("victim's ring edge changed")

// Controller handles kill reports and death confirmations.
type Controller struct {
	store    storage.Store
	clock    clock.Clock
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewController creates a new death controller
func NewController(
	store storage.Store,
	clk clock.Clock,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		store:    store,
		clock:    clk,
		notifier: notifier,
		logger:   logger,
	}
}

// ReportDeath records that murderer eliminated victim. In one
// transaction the victim leaves the ring and enters DYING with a Death
// record, the murderer's kill count increments and inherits the
// victim's target, and if only one player remains the game is marked
// OVER. Last words are not part of the report; they arrive with
// ConfirmDeath.
func (c *Controller) ReportDeath(ctx context.Context, code model.GameCode, murderer, victim model.UserID, weapon string) (*model.Player, error) {
	if murderer == victim {
		return nil, model.ErrNotYourVictim
	}

	var reported *model.Player
	var newVictim *model.UserID
	var winner *model.UserID

	for attempt := 0; ; attempt++ {
		ids := []model.UserID{murderer, victim}

		// The reclose also touches the victim's own victim. Read it
		// outside the transaction to name it, re-check inside.
		v, err := c.store.GetPlayer(ctx, code, victim)
		if err != nil {
			return nil, err
		}
		neighbor := v.Victim
		if neighbor != nil {
			ids = append(ids, *neighbor)
		}

		err = c.store.UpdateGame(ctx, code, ids, func(txn *storage.GameTxn) error {
			switch txn.Game.State {
			case model.GameStateRunning:
			case model.GameStateNotStarted:
				return model.ErrGameNotRunning
			default:
				return model.ErrGameOver
			}

			m := txn.Players[murderer]
			vv := txn.Players[victim]
			if m.State != model.PlayerStateAlive {
				return model.ErrPlayerNotAlive
			}
			// Victim state before assignment: a replayed report finds the
			// victim already out of the ring, not a wrong target.
			if !vv.InRing() {
				return model.ErrPlayerNotAlive
			}
			if m.Victim == nil || *m.Victim != victim {
				return model.ErrNotYourVictim
			}
			if neighbor == nil || *vv.Victim != *neighbor {
				return errStaleNeighbor
			}

			survivor, err := ring.Reclose(txn.Players, victim)
			if err != nil {
				return err
			}

			vv.State = model.PlayerStateDying
			vv.WantsNewVictim = false
			vv.Death = &model.Death{
				Time:     c.clock.Now(),
				Murderer: murderer,
				Weapon:   weapon,
			}
			m.Kills++

			reported = vv
			newVictim = m.Victim
			winner = nil
			if survivor != nil {
				txn.Game.State = model.GameStateOver
				id := survivor.UserID
				winner = &id
			}
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, errStaleNeighbor) && attempt < maxNeighborRetries {
			continue
		}
		if errors.Is(err, errStaleNeighbor) {
			return nil, model.ErrContention
		}
		return nil, err
	}

	c.logger.Info("death reported",
		slog.String("game", string(code)),
		slog.String("murderer", string(murderer)),
		slog.String("victim", string(victim)),
	)

	c.notifyEliminated(ctx, code, victim, murderer)
	if winner != nil {
		c.notifyGameEnded(ctx, code, *winner)
	} else if newVictim != nil {
		c.notifyVictimAssigned(ctx, code, murderer, *newVictim)
	}
	return reported, nil
}

// ConfirmDeath moves a DYING player to DEAD and seals their last words
// into the Death record.
func (c *Controller) ConfirmDeath(ctx context.Context, code model.GameCode, victim model.UserID, lastWords string) (*model.Player, error) {
	var confirmed *model.Player
	err := c.store.UpdateGame(ctx, code, []model.UserID{victim}, func(txn *storage.GameTxn) error {
		p := txn.Players[victim]
		if p.State != model.PlayerStateDying {
			return model.ErrPlayerNotDying
		}
		if p.Death == nil {
			return &model.CorruptError{
				Kind:   "player",
				Key:    string(code) + "/" + string(victim),
				Reason: "dying player has no death record",
			}
		}
		p.State = model.PlayerStateDead
		p.Death.LastWords = lastWords
		confirmed = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("death confirmed",
		slog.String("game", string(code)),
		slog.String("victim", string(victim)),
	)
	return confirmed, nil
}

func (c *Controller) notifyEliminated(ctx context.Context, code model.GameCode, recipient, murderer model.UserID) {
	murdererName := ""
	if u, err := c.store.GetUser(ctx, murderer); err == nil {
		murdererName = u.Name
	}
	c.notifier.Notify(ctx, notify.Event{
		Recipient:    recipient,
		Kind:         notify.KindEliminated,
		GameCode:     code,
		MurdererName: murdererName,
	})
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

func (c *Controller) notifyGameEnded(ctx context.Context, code model.GameCode, winner model.UserID) {
	winnerName := ""
	if u, err := c.store.GetUser(ctx, winner); err == nil {
		winnerName = u.Name
	}
	players, err := c.store.ListPlayers(ctx, code)
	if err != nil {
		c.logger.Warn("could not list players for end-of-game notification",
			slog.String("game", string(code)),
			slog.String("error", err.Error()),
		)
		players = nil
	}
	for _, p := range players {
		c.notifier.Notify(ctx, notify.Event{
			Recipient:  p.UserID,
			Kind:       notify.KindGameEnded,
			GameCode:   code,
			WinnerName: winnerName,
		})
	}
}
