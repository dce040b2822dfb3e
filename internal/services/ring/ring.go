package ring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/assassin-game/assassin-go/internal/dependencies/random"
	"github.com/assassin-game/assassin-go/internal/model"
)

// The victim ring is the directed cycle of victim assignments among the
// ALIVE players of one game. Each alive player has exactly one outgoing
// victim edge and one incoming murderer edge, and following victim edges
// from any player visits every other alive player exactly once.
//
// The ring is not a data structure of its own: it lives in the Victim and
// Murderer fields of the player records. The functions here mutate player
// records in place and are meant to run inside a storage transaction, so
// a conflicting concurrent mutation restarts the whole computation rather
// than corrupting the cycle.

// MinPlayers is the smallest set Build accepts. A ring of two makes the
// players mutual murderers from the start, a ring of one is meaningless.
const MinPlayers = 3

// ErrBroken reports a structurally invalid ring, e.g. an edge pointing at
// a player missing from the transaction or a cycle that does not close.
var ErrBroken = errors.New("victim ring is broken")

// Build links the given JOINING players into a single cycle and promotes
// them to ALIVE. The order is randomized with a Fisher-Yates shuffle so
// join order carries no positional bias.
func Build(rnd random.Random, players []*model.Player) error {
	if len(players) < MinPlayers {
		return model.ErrInsufficientPlayers
	}
	for _, p := range players {
		if p.State != model.PlayerStateJoining {
			return fmt.Errorf("%w: player %s is %s, not joining", ErrBroken, p.UserID, p.State)
		}
	}

	shuffled := make([]*model.Player, len(players))
	copy(shuffled, players)
	for i := len(shuffled) - 1; i >= 1; i-- {
		j := rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	n := len(shuffled)
	for i, p := range shuffled {
		victimID := shuffled[(i+1)%n].UserID
		murdererID := shuffled[(i-1+n)%n].UserID
		p.State = model.PlayerStateAlive
		p.Victim = &victimID
		p.Murderer = &murdererID
	}
	return nil
}

// Reclose removes a player from the ring and reconnects their murderer to
// their victim, shrinking the cycle by one. The removed player's edges
// are cleared; their lifecycle state is the caller's business.
//
// When the old ring had size two the survivor is left without edges and
// returned so the caller can apply its win-condition policy; otherwise
// the returned player is nil.
func Reclose(players map[model.UserID]*model.Player, removed model.UserID) (*model.Player, error) {
	p := players[removed]
	if p == nil {
		return nil, fmt.Errorf("%w: player %s not part of the transaction", ErrBroken, removed)
	}
	if p.Victim == nil || p.Murderer == nil {
		return nil, fmt.Errorf("%w: player %s has no ring edges", ErrBroken, removed)
	}

	murdererID := *p.Murderer
	victimID := *p.Victim
	p.Victim = nil
	p.Murderer = nil

	if murdererID == victimID {
		// Two players left and one just fell: the cycle is gone.
		survivor := players[murdererID]
		if survivor == nil {
			return nil, fmt.Errorf("%w: survivor %s not part of the transaction", ErrBroken, murdererID)
		}
		survivor.Victim = nil
		survivor.Murderer = nil
		return survivor, nil
	}

	m := players[murdererID]
	v := players[victimID]
	if m == nil || v == nil {
		return nil, fmt.Errorf("%w: neighbors of %s not part of the transaction", ErrBroken, removed)
	}
	if m.Victim == nil || *m.Victim != removed || v.Murderer == nil || *v.Murderer != removed {
		return nil, fmt.Errorf("%w: edges around %s are inconsistent", ErrBroken, removed)
	}

	m.Victim = &victimID
	v.Murderer = &murdererID
	return nil, nil
}

// Insert splices a joining player into a live ring behind a uniformly
// chosen alive player and promotes them to ALIVE.
func Insert(rnd random.Random, players map[model.UserID]*model.Player, joiner *model.Player) error {
	anchors := aliveIDs(players)
	if len(anchors) == 0 {
		return fmt.Errorf("%w: no alive players to join behind", ErrBroken)
	}

	anchor := players[anchors[rnd.Intn(len(anchors))]]
	next := players[*anchor.Victim]
	if next == nil {
		return fmt.Errorf("%w: victim of %s not part of the transaction", ErrBroken, anchor.UserID)
	}

	anchorID := anchor.UserID
	nextID := next.UserID
	joinerID := joiner.UserID

	joiner.State = model.PlayerStateAlive
	joiner.Victim = &nextID
	joiner.Murderer = &anchorID
	anchor.Victim = &joinerID
	next.Murderer = &joinerID
	return nil
}

// Reassign gives the flagged player a new victim while keeping a single
// cycle: the player is spliced out of the ring and reinserted behind
// another alive player. The new anchor is never the player itself or its
// murderer, so the resulting victim is guaranteed to change and is never
// the player itself.
func Reassign(rnd random.Random, players map[model.UserID]*model.Player, flagged model.UserID) error {
	f := players[flagged]
	if f == nil || !f.InRing() {
		return model.ErrPlayerNotAlive
	}

	var candidates []model.UserID
	for _, id := range aliveIDs(players) {
		if id == flagged || id == *f.Murderer {
			continue
		}
		candidates = append(candidates, id)
	}
	if len(candidates) == 0 {
		// A two-player ring leaves nowhere else to go
		return model.ErrInsufficientPlayers
	}

	anchor := players[candidates[rnd.Intn(len(candidates))]]

	if _, err := Reclose(players, flagged); err != nil {
		return err
	}
	next := players[*anchor.Victim]
	if next == nil {
		return fmt.Errorf("%w: victim of %s not part of the transaction", ErrBroken, anchor.UserID)
	}

	anchorID := anchor.UserID
	nextID := next.UserID
	flaggedID := f.UserID

	f.Victim = &nextID
	f.Murderer = &anchorID
	anchor.Victim = &flaggedID
	next.Murderer = &flaggedID
	return nil
}

// Verify checks the single-cycle invariant over the alive players:
// following victim edges from any start visits every alive player exactly
// once and returns to the start, murderer back-references mirror the
// victim edges, and no player targets itself or its own murderer unless
// exactly two players remain.
func Verify(players map[model.UserID]*model.Player) error {
	alive := aliveIDs(players)
	n := len(alive)
	if n == 0 {
		return nil
	}
	if n == 1 {
		p := players[alive[0]]
		if p.Victim != nil || p.Murderer != nil {
			return fmt.Errorf("%w: sole alive player %s still has ring edges", ErrBroken, p.UserID)
		}
		return nil
	}

	start := alive[0]
	cur := start
	visited := make(map[model.UserID]bool, n)
	for i := 0; i < n; i++ {
		p := players[cur]
		if p.Victim == nil {
			return fmt.Errorf("%w: alive player %s has no victim", ErrBroken, cur)
		}
		nextID := *p.Victim
		if nextID == cur {
			return fmt.Errorf("%w: player %s targets itself", ErrBroken, cur)
		}
		if n > 2 && p.Murderer != nil && *p.Murderer == nextID {
			return fmt.Errorf("%w: players %s and %s are mutual murderers", ErrBroken, cur, nextID)
		}
		next := players[nextID]
		if next == nil || next.State != model.PlayerStateAlive {
			return fmt.Errorf("%w: player %s targets non-alive %s", ErrBroken, cur, nextID)
		}
		if next.Murderer == nil || *next.Murderer != cur {
			return fmt.Errorf("%w: murderer back-reference of %s does not match %s", ErrBroken, nextID, cur)
		}
		if visited[cur] {
			return fmt.Errorf("%w: player %s visited twice", ErrBroken, cur)
		}
		visited[cur] = true
		cur = nextID
	}
	if cur != start {
		return fmt.Errorf("%w: walk of %d steps did not return to %s", ErrBroken, n, start)
	}
	return nil
}

// aliveIDs returns the ids of alive players in deterministic order
func aliveIDs(players map[model.UserID]*model.Player) []model.UserID {
	var ids []model.UserID
	for id, p := range players {
		if p.State == model.PlayerStateAlive {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
