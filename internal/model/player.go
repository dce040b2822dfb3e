package model

import "time"

// PlayerState represents the lifecycle state of a player within one game
type PlayerState string

const (
	// PlayerStateJoining means the player registered but is not yet part
	// of the victim ring.
	PlayerStateJoining PlayerState = "joining"
	// PlayerStateAlive means the player is hunting their assigned victim
	// and is hunted by their murderer.
	PlayerStateAlive PlayerState = "alive"
	// PlayerStateDying means a kill has been reported on this player and
	// their last words are awaited. A dying player is already out of the
	// ring.
	PlayerStateDying PlayerState = "dying"
	// PlayerStateDead is terminal; the Death record is populated.
	PlayerStateDead PlayerState = "dead"
)

// Player is a user's participation in exactly one game, identified by the
// (game code, user id) pair.
//
// Victim is the outbound ring edge (whom this player must eliminate) and
// Murderer the inbound one (who hunts this player). Both are nil outside
// the ring. Among ALIVE players the victim edges form exactly one cycle.
type Player struct {
	GameCode GameCode `json:"-"`
	UserID   UserID   `json:"-"`

	State          PlayerState `json:"state"`
	Kills          int         `json:"kills"`
	Murderer       *UserID     `json:"murderer"`
	Victim         *UserID     `json:"victim"`
	WantsNewVictim bool        `json:"wantsNewVictim"`
	Death          *Death      `json:"death"`
}

// Death records how a player died. It is owned by the victim and immutable
// once the player reaches DEAD.
type Death struct {
	Time      time.Time `json:"time"`
	Murderer  UserID    `json:"murderer"`
	Weapon    string    `json:"weapon"`
	LastWords string    `json:"lastWords"`
}

// InRing reports whether the player currently holds ring edges
func (p *Player) InRing() bool {
	return p.State == PlayerStateAlive && p.Victim != nil && p.Murderer != nil
}
