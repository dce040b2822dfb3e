package ring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/assassin-game/assassin-go/internal/dependencies/mocks"
	"github.com/assassin-game/assassin-go/internal/dependencies/random"
	"github.com/assassin-game/assassin-go/internal/model"
)

type RingSuite struct {
	suite.Suite
	random random.Random
}

func TestRingSuite(t *testing.T) {
	suite.Run(t, new(RingSuite))
}

func (s *RingSuite) SetupTest() {
	s.random = random.New()
}

// joiningPlayers returns n JOINING players with ids p00..pNN
func (s *RingSuite) joiningPlayers(n int) []*model.Player {
	players := make([]*model.Player, n)
	for i := range players {
		players[i] = &model.Player{
			GameCode: "FOXTRO",
			UserID:   model.UserID(fmt.Sprintf("p%02d", i)),
			State:    model.PlayerStateJoining,
		}
	}
	return players
}

// builtRing builds a ring of n players and returns them keyed by id
func (s *RingSuite) builtRing(n int) map[model.UserID]*model.Player {
	players := s.joiningPlayers(n)
	s.Require().NoError(Build(s.random, players))

	byID := make(map[model.UserID]*model.Player, n)
	for _, p := range players {
		byID[p.UserID] = p
	}
	return byID
}

// Build tests

func (s *RingSuite) TestBuildRejectsFewerThanThree() {
	for _, n := range []int{0, 1, 2} {
		err := Build(s.random, s.joiningPlayers(n))
		s.ErrorIs(err, model.ErrInsufficientPlayers)
	}
}

func (s *RingSuite) TestBuildRejectsNonJoiningPlayers() {
	players := s.joiningPlayers(3)
	players[1].State = model.PlayerStateAlive

	s.ErrorIs(Build(s.random, players), ErrBroken)
}

func (s *RingSuite) TestBuildProducesSingleCycle() {
	for _, n := range []int{3, 4, 7, 12} {
		byID := s.builtRing(n)

		s.Require().NoError(Verify(byID), "ring of %d", n)
		for _, p := range byID {
			s.Equal(model.PlayerStateAlive, p.State)
			s.Require().NotNil(p.Victim)
			s.Require().NotNil(p.Murderer)
			s.NotEqual(p.UserID, *p.Victim)
		}

		// Walking victim edges returns to the start after exactly n steps
		var start model.UserID
		for id := range byID {
			start = id
			break
		}
		cur := start
		for i := 0; i < n; i++ {
			cur = *byID[cur].Victim
		}
		s.Equal(start, cur)
	}
}

func (s *RingSuite) TestBuildShuffleIsDeterministicUnderMock() {
	rnd := mocks.NewMockRandom()
	// Fisher-Yates over [p00 p01 p02]: swap(2,0) then swap(1,0)
	rnd.QueueIntn(0, 0)

	players := s.joiningPlayers(3)
	s.Require().NoError(Build(rnd, players))

	byID := map[model.UserID]*model.Player{}
	for _, p := range players {
		byID[p.UserID] = p
	}
	// Shuffled order is [p01 p02 p00], linked consecutively with wraparound
	s.Equal(model.UserID("p02"), *byID["p01"].Victim)
	s.Equal(model.UserID("p00"), *byID["p02"].Victim)
	s.Equal(model.UserID("p01"), *byID["p00"].Victim)
}

// Reclose tests

func (s *RingSuite) TestRecloseShrinksRingByOne() {
	byID := s.builtRing(5)
	removed := byID["p02"]
	oldMurderer := *removed.Murderer
	oldVictim := *removed.Victim

	survivor, err := Reclose(byID, "p02")
	s.Require().NoError(err)
	s.Nil(survivor)

	removed.State = model.PlayerStateDying
	s.Require().NoError(Verify(byID))
	s.Nil(removed.Victim)
	s.Nil(removed.Murderer)
	s.Equal(oldVictim, *byID[oldMurderer].Victim)
	s.Equal(oldMurderer, *byID[oldVictim].Murderer)
}

func (s *RingSuite) TestRecloseRepeatedlyDownToTwo() {
	byID := s.builtRing(7)

	for size := 7; size > 2; size-- {
		// Remove whichever player is first alive
		var target model.UserID
		for id, p := range byID {
			if p.State == model.PlayerStateAlive {
				target = id
				break
			}
		}
		survivor, err := Reclose(byID, target)
		s.Require().NoError(err)
		s.Nil(survivor)
		byID[target].State = model.PlayerStateDead
		s.Require().NoError(Verify(byID))
	}

	// Two players remain as each other's victim and murderer
	alive := aliveIDs(byID)
	s.Require().Len(alive, 2)
	a, b := byID[alive[0]], byID[alive[1]]
	s.Equal(b.UserID, *a.Victim)
	s.Equal(b.UserID, *a.Murderer)
	s.Equal(a.UserID, *b.Victim)
	s.Equal(a.UserID, *b.Murderer)
}

func (s *RingSuite) TestRecloseTwoPlayerRingReportsSurvivor() {
	byID := s.builtRing(3)
	var ids []model.UserID
	for id := range byID {
		ids = append(ids, id)
	}
	_, err := Reclose(byID, ids[0])
	s.Require().NoError(err)
	byID[ids[0]].State = model.PlayerStateDead

	survivor, err := Reclose(byID, ids[1])
	s.Require().NoError(err)
	byID[ids[1]].State = model.PlayerStateDead

	s.Require().NotNil(survivor)
	s.Equal(byID[ids[2]], survivor)
	s.Nil(survivor.Victim)
	s.Nil(survivor.Murderer)
	s.NoError(Verify(byID))
}

func (s *RingSuite) TestRecloseRejectsPlayerOutsideRing() {
	byID := s.builtRing(3)
	joiner := &model.Player{UserID: "late", State: model.PlayerStateJoining}
	byID["late"] = joiner

	_, err := Reclose(byID, "late")
	s.ErrorIs(err, ErrBroken)
}

func (s *RingSuite) TestRecloseRejectsMissingNeighbor() {
	byID := s.builtRing(4)
	target := byID["p00"]
	// Simulate a transaction that failed to include the victim record
	delete(byID, *target.Victim)

	_, err := Reclose(byID, "p00")
	s.ErrorIs(err, ErrBroken)
}

// Insert tests

func (s *RingSuite) TestInsertSplicesJoinerIntoCycle() {
	byID := s.builtRing(3)
	joiner := &model.Player{GameCode: "FOXTRO", UserID: "late", State: model.PlayerStateJoining}
	byID["late"] = joiner

	s.Require().NoError(Insert(s.random, byID, joiner))

	s.Equal(model.PlayerStateAlive, joiner.State)
	s.Require().NoError(Verify(byID))
	s.Len(aliveIDs(byID), 4)
}

func (s *RingSuite) TestInsertRequiresLiveRing() {
	players := map[model.UserID]*model.Player{}
	joiner := &model.Player{UserID: "late", State: model.PlayerStateJoining}

	s.ErrorIs(Insert(s.random, players, joiner), ErrBroken)
}

// Reassign tests

func (s *RingSuite) TestReassignGivesDifferentVictim() {
	for i := 0; i < 20; i++ {
		byID := s.builtRing(5)
		f := byID["p01"]
		oldVictim := *f.Victim

		s.Require().NoError(Reassign(s.random, byID, "p01"))

		s.Require().NoError(Verify(byID))
		s.NotEqual(oldVictim, *f.Victim)
		s.NotEqual(f.UserID, *f.Victim)
		s.NotEqual(*f.Murderer, *f.Victim)
	}
}

func (s *RingSuite) TestReassignThreePlayerRing() {
	byID := s.builtRing(3)
	f := byID["p00"]
	oldVictim := *f.Victim

	s.Require().NoError(Reassign(s.random, byID, "p00"))
	s.Require().NoError(Verify(byID))
	s.NotEqual(oldVictim, *f.Victim)
}

func (s *RingSuite) TestReassignFailsOnTwoPlayerRing() {
	byID := s.builtRing(3)
	_, err := Reclose(byID, "p01")
	s.Require().NoError(err)
	byID["p01"].State = model.PlayerStateDead

	s.ErrorIs(Reassign(s.random, byID, "p00"), model.ErrInsufficientPlayers)
}

func (s *RingSuite) TestReassignRequiresAlivePlayer() {
	byID := s.builtRing(3)
	byID["p00"].State = model.PlayerStateDying
	byID["p00"].Victim = nil
	byID["p00"].Murderer = nil

	s.ErrorIs(Reassign(s.random, byID, "p00"), model.ErrPlayerNotAlive)
}

// Verify tests

func (s *RingSuite) TestVerifyCatchesSelfLoop() {
	byID := s.builtRing(3)
	self := byID["p00"].UserID
	byID["p00"].Victim = &self

	s.ErrorIs(Verify(byID), ErrBroken)
}

func (s *RingSuite) TestVerifyCatchesSplitCycle() {
	byID := s.builtRing(4)
	// Rewire two players into a private 2-cycle
	a, b := byID["p00"], byID[*byID["p00"].Victim]
	aID, bID := a.UserID, b.UserID
	a.Victim = &bID
	b.Victim = &aID
	a.Murderer = &bID
	b.Murderer = &aID

	s.ErrorIs(Verify(byID), ErrBroken)
}

func (s *RingSuite) TestVerifyCatchesDanglingEdge() {
	byID := s.builtRing(3)
	gone := model.UserID("nobody")
	byID["p00"].Victim = &gone

	s.ErrorIs(Verify(byID), ErrBroken)
}

func (s *RingSuite) TestVerifyAcceptsEmptyAndSoleSurvivor() {
	s.NoError(Verify(map[model.UserID]*model.Player{}))

	survivor := &model.Player{UserID: "p00", State: model.PlayerStateAlive}
	s.NoError(Verify(map[model.UserID]*model.Player{"p00": survivor}))
}
