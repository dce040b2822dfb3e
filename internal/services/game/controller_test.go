package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/assassin-game/assassin-go/internal/dependencies/mocks"
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
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
	end        time.Time
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New(logger)
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.storage, s.clock, s.random, notify.NewLogNotifier(logger), logger)
	s.ctx = context.Background()
	s.end = s.clock.Now().Add(72 * time.Hour)
}

// realRandomController swaps in real randomness for tests that need
// actual shuffles rather than queued values.
func (s *ControllerSuite) realRandomController() *Controller {
	logger := testutil.NopLogger()
	return NewController(s.storage, s.clock, random.New(), notify.NewLogNotifier(logger), logger)
}

func (s *ControllerSuite) seedJoining(code model.GameCode, ids ...model.UserID) {
	for _, id := range ids {
		s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
			GameCode: code,
			UserID:   id,
			State:    model.PlayerStateJoining,
		}))
	}
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGameSucceeds() {
	s.random.QueueString("FOXTRO")

	game, err := s.controller.CreateGame(s.ctx, "user-a", "Office Mayhem", s.end)
	s.Require().NoError(err)

	s.Equal(model.GameCode("FOXTRO"), game.Code)
	s.Equal("Office Mayhem", game.Name)
	s.Equal(model.GameStateNotStarted, game.State)
	s.Equal(model.UserID("user-a"), game.Creator)
	s.Equal(s.clock.Now(), game.Created)
	s.Equal(s.end, game.End)

	retrieved, err := s.controller.GetGame(s.ctx, "FOXTRO")
	s.Require().NoError(err)
	s.Equal(game.Code, retrieved.Code)
}

func (s *ControllerSuite) TestCreateGameSkipsCodeOfLiveGame() {
	s.random.QueueString("FOXTRO", "FOXTRO", "TANGO2")

	first, err := s.controller.CreateGame(s.ctx, "user-a", "First", s.end)
	s.Require().NoError(err)
	s.Equal(model.GameCode("FOXTRO"), first.Code)

	second, err := s.controller.CreateGame(s.ctx, "user-b", "Second", s.end)
	s.Require().NoError(err)
	s.Equal(model.GameCode("TANGO2"), second.Code)
}

func (s *ControllerSuite) TestCreateGameReclaimsCodeOfFinishedGame() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{
		Code:    "FOXTRO",
		Name:    "Old",
		State:   model.GameStateOver,
		Creator: "user-z",
		Created: s.clock.Now().Add(-time.Hour),
		End:     s.clock.Now(),
	}))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		GameCode: "FOXTRO",
		UserID:   "user-z",
		State:    model.PlayerStateDead,
	}))

	s.random.QueueString("FOXTRO")
	game, err := s.controller.CreateGame(s.ctx, "user-a", "New", s.end)
	s.Require().NoError(err)
	s.Equal(model.GameCode("FOXTRO"), game.Code)

	// The finished game's roster is gone
	players, err := s.storage.ListPlayers(s.ctx, "FOXTRO")
	s.Require().NoError(err)
	s.Empty(players)
}

// UpdateConfig tests

func (s *ControllerSuite) TestUpdateConfigChangesNameAndEnd() {
	s.random.QueueString("FOXTRO")
	_, err := s.controller.CreateGame(s.ctx, "user-a", "Office Mayhem", s.end)
	s.Require().NoError(err)

	name := "Renamed"
	newEnd := s.end.Add(24 * time.Hour)
	updated, err := s.controller.UpdateConfig(s.ctx, "FOXTRO", "user-a", model.GameConfigUpdate{
		Name: &name,
		End:  &newEnd,
	})
	s.Require().NoError(err)
	s.Equal("Renamed", updated.Name)
	s.Equal(newEnd, updated.End)

	retrieved, err := s.controller.GetGame(s.ctx, "FOXTRO")
	s.Require().NoError(err)
	s.Equal("Renamed", retrieved.Name)
}

func (s *ControllerSuite) TestUpdateConfigRequiresCreator() {
	s.random.QueueString("FOXTRO")
	_, err := s.controller.CreateGame(s.ctx, "user-a", "Office Mayhem", s.end)
	s.Require().NoError(err)

	name := "Hijacked"
	_, err = s.controller.UpdateConfig(s.ctx, "FOXTRO", "user-b", model.GameConfigUpdate{Name: &name})
	s.ErrorIs(err, model.ErrNotCreator)
}

func (s *ControllerSuite) TestUpdateConfigRejectsFinishedGame() {
	s.random.QueueString("FOXTRO")
	_, err := s.controller.CreateGame(s.ctx, "user-a", "Office Mayhem", s.end)
	s.Require().NoError(err)
	s.seedJoining("FOXTRO", "user-a", "user-b", "user-c")
	_, err = s.realRandomController().Start(s.ctx, "FOXTRO", "user-a")
	s.Require().NoError(err)
	_, err = s.controller.Finish(s.ctx, "FOXTRO", "user-a")
	s.Require().NoError(err)

	name := "Too Late"
	_, err = s.controller.UpdateConfig(s.ctx, "FOXTRO", "user-a", model.GameConfigUpdate{Name: &name})
	s.ErrorIs(err, model.ErrGameOver)
}

// Start tests

func (s *ControllerSuite) TestStartBuildsRingAndPromotesPlayers() {
	s.random.QueueString("FOXTRO")
	_, err := s.controller.CreateGame(s.ctx, "user-a", "Office Mayhem", s.end)
	s.Require().NoError(err)
	s.seedJoining("FOXTRO", "user-a", "user-b", "user-c", "user-d")

	started, err := s.realRandomController().Start(s.ctx, "FOXTRO", "user-a")
	s.Require().NoError(err)
	s.Equal(model.GameStateRunning, started.State)

	players, err := s.storage.ListPlayers(s.ctx, "FOXTRO")
	s.Require().NoError(err)
	s.Require().Len(players, 4)

	byID := map[model.UserID]*model.Player{}
	for _, p := range players {
		s.Equal(model.PlayerStateAlive, p.State)
		byID[p.UserID] = p
	}
	s.NoError(ring.Verify(byID))
}

func (s *ControllerSuite) TestStartRequiresCreator() {
	s.random.QueueString("FOXTRO")
	_, err := s.controller.CreateGame(s.ctx, "user-a", "Office Mayhem", s.end)
	s.Require().NoError(err)
	s.seedJoining("FOXTRO", "user-a", "user-b", "user-c")

	_, err = s.controller.Start(s.ctx, "FOXTRO", "user-b")
	s.ErrorIs(err, model.ErrNotCreator)
}

func (s *ControllerSuite) TestStartRequiresThreePlayers() {
	s.random.QueueString("FOXTRO")
	_, err := s.controller.CreateGame(s.ctx, "user-a", "Office Mayhem", s.end)
	s.Require().NoError(err)
	s.seedJoining("FOXTRO", "user-a", "user-b")

	_, err = s.controller.Start(s.ctx, "FOXTRO", "user-a")
	s.ErrorIs(err, model.ErrInsufficientPlayers)

	// Nothing was promoted
	players, err := s.storage.ListPlayers(s.ctx, "FOXTRO")
	s.Require().NoError(err)
	for _, p := range players {
		s.Equal(model.PlayerStateJoining, p.State)
	}
}

func (s *ControllerSuite) TestStartTwiceFails() {
	s.random.QueueString("FOXTRO")
	_, err := s.controller.CreateGame(s.ctx, "user-a", "Office Mayhem", s.end)
	s.Require().NoError(err)
	s.seedJoining("FOXTRO", "user-a", "user-b", "user-c")

	ctrl := s.realRandomController()
	_, err = ctrl.Start(s.ctx, "FOXTRO", "user-a")
	s.Require().NoError(err)

	_, err = ctrl.Start(s.ctx, "FOXTRO", "user-a")
	s.ErrorIs(err, model.ErrGameAlreadyStarted)
}

// Finish tests

func (s *ControllerSuite) TestFinishRequiresRunningGame() {
	s.random.QueueString("FOXTRO")
	_, err := s.controller.CreateGame(s.ctx, "user-a", "Office Mayhem", s.end)
	s.Require().NoError(err)

	_, err = s.controller.Finish(s.ctx, "FOXTRO", "user-a")
	s.ErrorIs(err, model.ErrGameNotRunning)
}

func (s *ControllerSuite) TestFinishMarksGameOver() {
	s.random.QueueString("FOXTRO")
	_, err := s.controller.CreateGame(s.ctx, "user-a", "Office Mayhem", s.end)
	s.Require().NoError(err)
	s.seedJoining("FOXTRO", "user-a", "user-b", "user-c")
	_, err = s.realRandomController().Start(s.ctx, "FOXTRO", "user-a")
	s.Require().NoError(err)

	finished, err := s.controller.Finish(s.ctx, "FOXTRO", "user-a")
	s.Require().NoError(err)
	s.Equal(model.GameStateOver, finished.State)

	_, err = s.controller.Finish(s.ctx, "FOXTRO", "user-a")
	s.ErrorIs(err, model.ErrGameOver)
}

func (s *ControllerSuite) TestGetGameUnknownCode() {
	_, err := s.controller.GetGame(s.ctx, "NOPE12")
	s.ErrorIs(err, model.ErrGameNotFound)
}
