package memory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/assassin-game/assassin-go/internal/model"
	"github.com/assassin-game/assassin-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
//
// Documents are held in their marshaled form so that reads go through the
// same shape validation as the Redis backend. Multi-record transactions
// are serialized under the mutex; the callback never suspends, so holding
// the lock across it satisfies the same atomicity contract the optimistic
// backend provides via conflict retry.
type Storage struct {
	mu sync.RWMutex

	users   map[model.UserID][]byte
	games   map[model.GameCode][]byte
	players map[model.GameCode]map[model.UserID][]byte

	logger *slog.Logger
}

// New creates a new in-memory storage instance
func New(logger *slog.Logger) *Storage {
	return &Storage{
		users:   make(map[model.UserID][]byte),
		games:   make(map[model.GameCode][]byte),
		players: make(map[model.GameCode]map[model.UserID][]byte),
		logger:  logger,
	}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) corrupt(kind, key string, err error) error {
	ce := &model.CorruptError{Kind: kind, Key: key, Reason: err.Error()}
	s.logger.Error("corrupt record",
		slog.String("kind", kind),
		slog.String("key", key),
		slog.String("reason", err.Error()),
	)
	return ce
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = data
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	data, ok := s.users[id]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, err := model.DecodeUser(id, data)
	if err != nil {
		return nil, s.corrupt("user", string(id), err)
	}
	return user, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.Code] = data
	return nil
}

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.Code]; ok {
		return model.ErrGameCodeTaken
	}
	s.games[game.Code] = data
	return nil
}

func (s *Storage) GetGame(ctx context.Context, code model.GameCode) (*model.Game, error) {
	s.mu.RLock()
	data, ok := s.games[code]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrGameNotFound
	}
	game, err := model.DecodeGame(code, data)
	if err != nil {
		return nil, s.corrupt("game", string(code), err)
	}
	return game, nil
}

func (s *Storage) DeletePlayers(ctx context.Context, code model.GameCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, code)
	return nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putPlayerLocked(player.GameCode, player.UserID, data)
	return nil
}

func (s *Storage) putPlayerLocked(code model.GameCode, id model.UserID, data []byte) {
	roster, ok := s.players[code]
	if !ok {
		roster = make(map[model.UserID][]byte)
		s.players[code] = roster
	}
	roster[id] = data
}

func (s *Storage) GetPlayer(ctx context.Context, code model.GameCode, id model.UserID) (*model.Player, error) {
	s.mu.RLock()
	data, ok := s.players[code][id]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, err := model.DecodePlayer(code, id, data)
	if err != nil {
		return nil, s.corrupt("player", string(code)+"/"+string(id), err)
	}
	return player, nil
}

func (s *Storage) ListPlayers(ctx context.Context, code model.GameCode) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listPlayersLocked(code)
}

func (s *Storage) listPlayersLocked(code model.GameCode) ([]*model.Player, error) {
	roster := s.players[code]

	ids := make([]model.UserID, 0, len(roster))
	for id := range roster {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	players := make([]*model.Player, 0, len(ids))
	for _, id := range ids {
		player, err := model.DecodePlayer(code, id, roster[id])
		if err != nil {
			// One bad record aborts the whole listing
			return nil, s.corrupt("player", string(code)+"/"+string(id), err)
		}
		players = append(players, player)
	}
	return players, nil
}

// UpdateGame runs fn atomically over the game and the named players.
func (s *Storage) UpdateGame(ctx context.Context, code model.GameCode, ids []model.UserID, fn func(txn *storage.GameTxn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gameData, ok := s.games[code]
	if !ok {
		return model.ErrGameNotFound
	}
	game, err := model.DecodeGame(code, gameData)
	if err != nil {
		return s.corrupt("game", string(code), err)
	}

	txn := &storage.GameTxn{
		Game:    game,
		Players: make(map[model.UserID]*model.Player),
	}

	if ids == nil {
		players, err := s.listPlayersLocked(code)
		if err != nil {
			return err
		}
		for _, p := range players {
			txn.Players[p.UserID] = p
		}
	} else {
		for _, id := range ids {
			data, ok := s.players[code][id]
			if !ok {
				return model.ErrPlayerNotFound
			}
			player, err := model.DecodePlayer(code, id, data)
			if err != nil {
				return s.corrupt("player", string(code)+"/"+string(id), err)
			}
			txn.Players[id] = player
		}
	}

	if err := fn(txn); err != nil {
		return err
	}

	gameOut, err := json.Marshal(txn.Game)
	if err != nil {
		return err
	}
	playersOut := make(map[model.UserID][]byte, len(txn.Players))
	for id, player := range txn.Players {
		data, err := json.Marshal(player)
		if err != nil {
			return err
		}
		playersOut[id] = data
	}

	s.games[code] = gameOut
	for id, data := range playersOut {
		s.putPlayerLocked(code, id, data)
	}
	return nil
}

// SeedRaw stores a raw document, bypassing marshaling. Tests use it to
// inject malformed records.
func (s *Storage) SeedRaw(kind string, code model.GameCode, id model.UserID, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case "user":
		s.users[id] = data
	case "game":
		s.games[code] = data
	case "player":
		s.putPlayerLocked(code, id, data)
	default:
		return errors.New("unknown kind: " + kind)
	}
	return nil
}
