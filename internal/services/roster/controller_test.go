package roster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/assassin-game/assassin-go/internal/dependencies/random"
	"github.com/assassin-game/assassin-go/internal/model"
	"github.com/assassin-game/assassin-go/internal/services/notify"
	"github.com/assassin-game/assassin-go/internal/services/ring"
	"github.com/assassin-game/assassin-go/internal/storage/memory"
	"github.com/assassin-game/assassin-go/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New(logger)
	s.controller = NewController(s.storage, random.New(), notify.NewLogNotifier(logger), logger)
	s.ctx = context.Background()
}

func (s *ControllerSuite) seedGame(state model.GameState) {
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{
		Code:    "FOXTRO",
		Name:    "Office Mayhem",
		State:   state,
		Creator: "user-a",
		Created: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC),
	}))
}

// seedRing seeds a running game with the given players linked in listed
// order.
func (s *ControllerSuite) seedRing(ids ...model.UserID) {
	s.seedGame(model.GameStateRunning)
	n := len(ids)
	for i, id := range ids {
		victim := ids[(i+1)%n]
		murderer := ids[(i-1+n)%n]
		s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
			GameCode: "FOXTRO",
			UserID:   id,
			State:    model.PlayerStateAlive,
			Murderer: &murderer,
			Victim:   &victim,
		}))
	}
}

func (s *ControllerSuite) ringByID() map[model.UserID]*model.Player {
	players, err := s.storage.ListPlayers(s.ctx, "FOXTRO")
	s.Require().NoError(err)
	byID := map[model.UserID]*model.Player{}
	for _, p := range players {
		byID[p.UserID] = p
	}
	return byID
}

// Join tests

func (s *ControllerSuite) TestJoinBeforeStartWaitsInJoining() {
	s.seedGame(model.GameStateNotStarted)

	p, err := s.controller.Join(s.ctx, "FOXTRO", "user-b")
	s.Require().NoError(err)
	s.Equal(model.PlayerStateJoining, p.State)
	s.Nil(p.Victim)
	s.Nil(p.Murderer)
	s.Equal(0, p.Kills)
}

func (s *ControllerSuite) TestJoinTwiceFails() {
	s.seedGame(model.GameStateNotStarted)

	_, err := s.controller.Join(s.ctx, "FOXTRO", "user-b")
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, "FOXTRO", "user-b")
	s.ErrorIs(err, model.ErrAlreadyJoined)
}

func (s *ControllerSuite) TestJoinRunningGameEntersRing() {
	s.seedRing("user-a", "user-b", "user-c")

	p, err := s.controller.Join(s.ctx, "FOXTRO", "user-d")
	s.Require().NoError(err)
	s.Equal(model.PlayerStateAlive, p.State)
	s.Require().NotNil(p.Victim)
	s.Require().NotNil(p.Murderer)

	byID := s.ringByID()
	s.Require().NoError(ring.Verify(byID))
	s.Len(byID, 4)
}

func (s *ControllerSuite) TestJoinFinishedGameFails() {
	s.seedGame(model.GameStateOver)

	_, err := s.controller.Join(s.ctx, "FOXTRO", "user-b")
	s.ErrorIs(err, model.ErrGameOver)
}

func (s *ControllerSuite) TestJoinUnknownGameFails() {
	_, err := s.controller.Join(s.ctx, "NOPE12", "user-b")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// GetPlayer / ListAlivePlayers tests

func (s *ControllerSuite) TestGetPlayer() {
	s.seedRing("user-a", "user-b", "user-c")

	p, err := s.controller.GetPlayer(s.ctx, "FOXTRO", "user-b")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-b"), p.UserID)

	_, err = s.controller.GetPlayer(s.ctx, "FOXTRO", "user-z")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.controller.GetPlayer(s.ctx, "NOPE12", "user-b")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestListAlivePlayersFiltersByState() {
	s.seedRing("user-a", "user-b", "user-c")
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		GameCode: "FOXTRO",
		UserID:   "user-d",
		State:    model.PlayerStateDead,
	}))

	alive, err := s.controller.ListAlivePlayers(s.ctx, "FOXTRO")
	s.Require().NoError(err)
	s.Len(alive, 3)
	for _, p := range alive {
		s.Equal(model.PlayerStateAlive, p.State)
	}
}

// RequestNewVictim / ShuffleVictims tests

func (s *ControllerSuite) TestRequestNewVictimSetsFlag() {
	s.seedRing("user-a", "user-b", "user-c")

	s.Require().NoError(s.controller.RequestNewVictim(s.ctx, "FOXTRO", "user-b"))

	p, err := s.storage.GetPlayer(s.ctx, "FOXTRO", "user-b")
	s.Require().NoError(err)
	s.True(p.WantsNewVictim)
}

func (s *ControllerSuite) TestRequestNewVictimRequiresAlive() {
	s.seedRing("user-a", "user-b", "user-c")
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		GameCode: "FOXTRO",
		UserID:   "user-d",
		State:    model.PlayerStateDead,
	}))

	err := s.controller.RequestNewVictim(s.ctx, "FOXTRO", "user-d")
	s.ErrorIs(err, model.ErrPlayerNotAlive)
}

func (s *ControllerSuite) TestRequestNewVictimRequiresRunningGame() {
	s.seedGame(model.GameStateNotStarted)
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		GameCode: "FOXTRO",
		UserID:   "user-b",
		State:    model.PlayerStateJoining,
	}))

	err := s.controller.RequestNewVictim(s.ctx, "FOXTRO", "user-b")
	s.ErrorIs(err, model.ErrGameNotRunning)
}

func (s *ControllerSuite) TestShuffleReassignsFlaggedAndClearsFlags() {
	s.seedRing("user-a", "user-b", "user-c", "user-d", "user-e")
	s.Require().NoError(s.controller.RequestNewVictim(s.ctx, "FOXTRO", "user-b"))

	before, err := s.storage.GetPlayer(s.ctx, "FOXTRO", "user-b")
	s.Require().NoError(err)
	oldVictim := *before.Victim

	s.Require().NoError(s.controller.ShuffleVictims(s.ctx, "FOXTRO", "user-a"))

	byID := s.ringByID()
	s.Require().NoError(ring.Verify(byID))
	reassigned := byID["user-b"]
	s.False(reassigned.WantsNewVictim)
	s.NotEqual(oldVictim, *reassigned.Victim)
	s.NotEqual(reassigned.UserID, *reassigned.Victim)
}

func (s *ControllerSuite) TestShuffleRequiresCreator() {
	s.seedRing("user-a", "user-b", "user-c")

	err := s.controller.ShuffleVictims(s.ctx, "FOXTRO", "user-b")
	s.ErrorIs(err, model.ErrNotCreator)
}

func (s *ControllerSuite) TestShuffleWithNoFlagsIsNoOp() {
	s.seedRing("user-a", "user-b", "user-c")
	before := s.ringByID()

	s.Require().NoError(s.controller.ShuffleVictims(s.ctx, "FOXTRO", "user-a"))

	after := s.ringByID()
	for id, p := range after {
		s.Equal(*before[id].Victim, *p.Victim)
	}
}

func (s *ControllerSuite) TestShuffleTwoPlayerRingKeepsAssignment() {
	s.seedRing("user-a", "user-b")
	s.Require().NoError(s.controller.RequestNewVictim(s.ctx, "FOXTRO", "user-b"))

	s.Require().NoError(s.controller.ShuffleVictims(s.ctx, "FOXTRO", "user-a"))

	p, err := s.storage.GetPlayer(s.ctx, "FOXTRO", "user-b")
	s.Require().NoError(err)
	s.False(p.WantsNewVictim)
	s.Equal(model.UserID("user-a"), *p.Victim)
}
