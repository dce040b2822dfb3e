package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/assassin-game/assassin-go/internal/dependencies/mocks"
	"github.com/assassin-game/assassin-go/internal/model"
	"github.com/assassin-game/assassin-go/internal/storage/memory"
	"github.com/assassin-game/assassin-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New(logger)
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, logger)
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestSignUpIssuesVerifiableToken() {
	user, token, err := s.service.SignUp(s.ctx, "Alice", "device-1")
	s.Require().NoError(err)
	s.NotEmpty(user.ID)
	s.NotEmpty(token)
	s.NotEqual(token, user.AuthTokenHash)

	verified, err := s.service.Verify(s.ctx, user.ID, token)
	s.Require().NoError(err)
	s.Equal(user.ID, verified.ID)
	s.Equal("Alice", verified.Name)
}

func (s *ServiceSuite) TestVerifyRejectsWrongToken() {
	user, _, err := s.service.SignUp(s.ctx, "Alice", "device-1")
	s.Require().NoError(err)

	_, err = s.service.Verify(s.ctx, user.ID, "not-the-token")
	s.ErrorIs(err, model.ErrAuthFailed)
}

func (s *ServiceSuite) TestVerifyUnknownUser() {
	_, err := s.service.Verify(s.ctx, "nobody", "token")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *ServiceSuite) TestVerifyCorruptUser() {
	s.Require().NoError(s.storage.SeedRaw("user", "", "broken", []byte(`{"name":"Alice"}`)))

	_, err := s.service.Verify(s.ctx, "broken", "token")
	s.ErrorIs(err, model.ErrCorruptRecord)
}

func (s *ServiceSuite) TestUpdateChangesNameAndMessagingToken() {
	user, token, err := s.service.SignUp(s.ctx, "Alice", "device-1")
	s.Require().NoError(err)

	name := "Alicia"
	device := "device-2"
	updated, err := s.service.Update(s.ctx, user.ID, token, UserUpdate{Name: &name, MessagingToken: &device})
	s.Require().NoError(err)
	s.Equal("Alicia", updated.Name)
	s.Equal("device-2", updated.MessagingToken)

	reloaded, err := s.service.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("Alicia", reloaded.Name)
}

func (s *ServiceSuite) TestUpdateRequiresValidToken() {
	user, _, err := s.service.SignUp(s.ctx, "Alice", "device-1")
	s.Require().NoError(err)

	name := "Mallory"
	_, err = s.service.Update(s.ctx, user.ID, "stolen", UserUpdate{Name: &name})
	s.ErrorIs(err, model.ErrAuthFailed)
}
