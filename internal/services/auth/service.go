package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/assassin-game/assassin-go/internal/dependencies/clock"
	"github.com/assassin-game/assassin-go/internal/model"
	"github.com/assassin-game/assassin-go/internal/storage"
)

// Service is the identity and access guard. Users receive an opaque auth
// token at signup; only its bcrypt hash is stored. Every mutating
// operation verifies the (user id, token) pair here before touching
// shared state.
type Service struct {
	store  storage.Store
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new auth service
func New(store storage.Store, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clk,
		logger: logger,
	}
}

// SignUp creates a user and issues their auth token. The plaintext token
// is returned exactly once; afterwards only the hash exists.
func (s *Service) SignUp(ctx context.Context, name, messagingToken string) (*model.User, string, error) {
	token := generateToken()

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		ID:             model.UserID(uuid.NewString()),
		Name:           name,
		AuthTokenHash:  string(hash),
		MessagingToken: messagingToken,
		Created:        s.clock.Now(),
	}

	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, "", err
	}

	s.logger.Info("user signed up", slog.String("user_id", string(user.ID)))
	return user, token, nil
}

// Verify loads the user and checks the presented token against the
// stored credential. It has no side effects beyond the read.
func (s *Service) Verify(ctx context.Context, id model.UserID, token string) (*model.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.AuthTokenHash), []byte(token)); err != nil {
		return nil, model.ErrAuthFailed
	}

	return user, nil
}

// GetUser loads a user without credential verification. Used to resolve
// display names for notifications and responses.
func (s *Service) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.store.GetUser(ctx, id)
}

// UserUpdate carries the user fields a caller may change; nil means
// unchanged.
type UserUpdate struct {
	Name           *string
	MessagingToken *string
}

// Update changes a user's own mutable fields after verifying their
// credential.
func (s *Service) Update(ctx context.Context, id model.UserID, token string, update UserUpdate) (*model.User, error) {
	user, err := s.Verify(ctx, id, token)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.MessagingToken != nil {
		user.MessagingToken = *update.MessagingToken
	}

	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// generateToken returns a fresh random credential
func generateToken() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
