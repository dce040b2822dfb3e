package notify

import (
	"context"
	"log/slog"

	"github.com/assassin-game/assassin-go/internal/model"
)

// Kind identifies the class of event sent to a player
type Kind string

const (
	// KindVictimAssigned tells a player who they hunt now
	KindVictimAssigned Kind = "victim_assigned"
	// KindEliminated tells a player a kill was reported on them
	KindEliminated Kind = "eliminated"
	// KindGameEnded tells a player the game is over
	KindGameEnded Kind = "game_ended"
)

// Event is the payload handed to the dispatch collaborator. Delivery to
// devices is outside the core; implementations receive the recipient's
// user id plus the contextual names the message template needs.
type Event struct {
	Recipient model.UserID
	Kind      Kind
	GameCode  model.GameCode

	VictimName   string // set for KindVictimAssigned
	MurdererName string // set for KindEliminated
	WinnerName   string // set for KindGameEnded
}

// Notifier dispatches game events to players. Failures are the
// implementation's problem; the game state transition has already
// committed when Notify is called.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// LogNotifier writes events to the log instead of delivering them.
// Default implementation until a push backend is wired up.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

var _ Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) Notify(ctx context.Context, event Event) {
	n.logger.Info("notification",
		slog.String("kind", string(event.Kind)),
		slog.String("recipient", string(event.Recipient)),
		slog.String("game", string(event.GameCode)),
	)
}
