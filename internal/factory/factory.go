package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/assassin-game/assassin-go/internal/dependencies/clock"
	"github.com/assassin-game/assassin-go/internal/dependencies/random"
	"github.com/assassin-game/assassin-go/internal/services/auth"
	"github.com/assassin-game/assassin-go/internal/services/death"
	"github.com/assassin-game/assassin-go/internal/services/game"
	"github.com/assassin-game/assassin-go/internal/services/notify"
	"github.com/assassin-game/assassin-go/internal/services/roster"
	"github.com/assassin-game/assassin-go/internal/storage"
	"github.com/assassin-game/assassin-go/internal/storage/memory"
	redisstorage "github.com/assassin-game/assassin-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService      *auth.Service
	Notifier         notify.Notifier
	GameController   *game.Controller
	RosterController *roster.Controller
	DeathController  *death.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Store
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(logger)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig, logger)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Store, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	notifier := notify.NewLogNotifier(logger)
	authService := auth.New(store, clk, logger)
	gameController := game.NewController(store, clk, rnd, notifier, logger)
	rosterController := roster.NewController(store, rnd, notifier, logger)
	deathController := death.NewController(store, clk, notifier, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		AuthService:      authService,
		Notifier:         notifier,
		GameController:   gameController,
		RosterController: rosterController,
		DeathController:  deathController,
	}
}
