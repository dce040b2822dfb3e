package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/assassin-game/assassin-go/internal/model"
	"github.com/assassin-game/assassin-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
//
// Multi-record transactions use WATCH/MULTI/EXEC: the watched keys are
// read, the callback computes new values, and the commit fails if any
// watched key changed since the read. A failed commit restarts the whole
// cycle, bounded by Config.TxRetries.
type Storage struct {
	client *redis.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a new Redis storage instance
func New(cfg Config, logger *slog.Logger) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{client: client, cfg: cfg, logger: logger}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, logger *slog.Logger) *Storage {
	return &Storage{client: client, cfg: cfg, logger: logger}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
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
	return s.client.Set(ctx, userKey(user.ID), data, 0).Err()
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
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
	return s.client.Set(ctx, gameKey(game.Code), data, 0).Err()
}

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	set, err := s.client.SetNX(ctx, gameKey(game.Code), data, 0).Result()
	if err != nil {
		return err
	}
	if !set {
		return model.ErrGameCodeTaken
	}
	return nil
}

func (s *Storage) GetGame(ctx context.Context, code model.GameCode) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	game, err := model.DecodeGame(code, data)
	if err != nil {
		return nil, s.corrupt("game", string(code), err)
	}
	return game, nil
}

func (s *Storage) DeletePlayers(ctx context.Context, code model.GameCode) error {
	indexKey := playersIndexKey(code)

	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, playerKey(code, model.UserID(id)))
	}
	pipe.Del(ctx, indexKey)
	_, err = pipe.Exec(ctx)
	return err
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Pipeline keeps the record and the roster index in step
	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(player.GameCode, player.UserID), data, 0)
	pipe.SAdd(ctx, playersIndexKey(player.GameCode), string(player.UserID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, code model.GameCode, id model.UserID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(code, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	player, err := model.DecodePlayer(code, id, data)
	if err != nil {
		return nil, s.corrupt("player", playerRef(code, id), err)
	}
	return player, nil
}

func (s *Storage) ListPlayers(ctx context.Context, code model.GameCode) ([]*model.Player, error) {
	ids, err := s.client.SMembers(ctx, playersIndexKey(code)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(code, model.UserID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	// A single bad record aborts the listing; a partial roster would let
	// a ring rebuild drop players.
	players := make([]*model.Player, 0, len(values))
	for i, val := range values {
		id := model.UserID(ids[i])
		raw, ok := val.(string)
		if !ok {
			return nil, s.corrupt("player", playerRef(code, id), errors.New("indexed document missing"))
		}
		player, err := model.DecodePlayer(code, id, []byte(raw))
		if err != nil {
			return nil, s.corrupt("player", playerRef(code, id), err)
		}
		players = append(players, player)
	}

	return players, nil
}

func playerRef(code model.GameCode, id model.UserID) string {
	return string(code) + "/" + string(id)
}

// UpdateGame runs fn as one optimistic multi-record transaction.
func (s *Storage) UpdateGame(ctx context.Context, code model.GameCode, ids []model.UserID, fn func(txn *storage.GameTxn) error) error {
	retries := s.cfg.TxRetries
	if retries <= 0 {
		retries = DefaultConfig().TxRetries
	}

	for attempt := 0; attempt < retries; attempt++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			return s.runGameTxn(ctx, tx, code, ids, fn)
		}, gameKey(code), playersIndexKey(code))

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}

	return model.ErrContention
}

func (s *Storage) runGameTxn(ctx context.Context, tx *redis.Tx, code model.GameCode, ids []model.UserID, fn func(txn *storage.GameTxn) error) error {
	gameData, err := tx.Get(ctx, gameKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ErrGameNotFound
		}
		return err
	}
	game, err := model.DecodeGame(code, gameData)
	if err != nil {
		return s.corrupt("game", string(code), err)
	}

	// Resolve the player set; nil means the whole roster.
	named := ids != nil
	if ids == nil {
		members, err := tx.SMembers(ctx, playersIndexKey(code)).Result()
		if err != nil {
			return err
		}
		sort.Strings(members)
		ids = make([]model.UserID, len(members))
		for i, m := range members {
			ids[i] = model.UserID(m)
		}
	}
	ids = dedupe(ids)

	playerKeys := make([]string, len(ids))
	for i, id := range ids {
		playerKeys[i] = playerKey(code, id)
	}
	if len(playerKeys) > 0 {
		if err := tx.Watch(ctx, playerKeys...).Err(); err != nil {
			return err
		}
	}

	txn := &storage.GameTxn{
		Game:    game,
		Players: make(map[model.UserID]*model.Player, len(ids)),
	}
	existing := make(map[model.UserID]bool, len(ids))

	for i, id := range ids {
		data, err := tx.Get(ctx, playerKeys[i]).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				if named {
					return model.ErrPlayerNotFound
				}
				return s.corrupt("player", playerRef(code, id), errors.New("indexed document missing"))
			}
			return err
		}
		player, err := model.DecodePlayer(code, id, data)
		if err != nil {
			return s.corrupt("player", playerRef(code, id), err)
		}
		txn.Players[id] = player
		existing[id] = true
	}

	if err := fn(txn); err != nil {
		return err
	}

	// All-or-nothing commit; fails if any watched key changed since the
	// reads above.
	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		gameData, err := json.Marshal(txn.Game)
		if err != nil {
			return err
		}
		pipe.Set(ctx, gameKey(code), gameData, 0)

		for id, player := range txn.Players {
			data, err := json.Marshal(player)
			if err != nil {
				return err
			}
			pipe.Set(ctx, playerKey(code, id), data, 0)
			if !existing[id] {
				pipe.SAdd(ctx, playersIndexKey(code), string(id))
			}
		}
		return nil
	})
	return err
}

func dedupe(ids []model.UserID) []model.UserID {
	seen := make(map[model.UserID]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
