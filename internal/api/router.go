package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/assassin-game/assassin-go/internal/api/handler"
	"github.com/assassin-game/assassin-go/internal/api/middleware"
	"github.com/assassin-game/assassin-go/internal/services/auth"
	"github.com/assassin-game/assassin-go/internal/services/death"
	"github.com/assassin-game/assassin-go/internal/services/game"
	"github.com/assassin-game/assassin-go/internal/services/roster"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	AuthService      *auth.Service
	GameController   *game.Controller
	RosterController *roster.Controller
	DeathController  *death.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.GameController)
	playerHandler := handler.NewPlayerHandler(cfg.RosterController, cfg.DeathController)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Signup needs no credential, there is nothing to present yet
	api.HandleFunc("/users", userHandler.SignUp).Methods(http.MethodPost)

	// Protected user routes
	users := api.PathPrefix("/users").Subrouter()
	users.Use(authMiddleware)
	users.HandleFunc("/{id}", userHandler.Update).Methods(http.MethodPatch)

	// Game routes (all require auth)
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{code}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{code}", gameHandler.UpdateConfig).Methods(http.MethodPatch)
	games.HandleFunc("/{code}/start", gameHandler.Start).Methods(http.MethodPost)
	games.HandleFunc("/{code}/finish", gameHandler.Finish).Methods(http.MethodPost)
	games.HandleFunc("/{code}/shuffle-victims", playerHandler.Shuffle).Methods(http.MethodPost)

	// Player routes
	games.HandleFunc("/{code}/players", playerHandler.Join).Methods(http.MethodPost)
	games.HandleFunc("/{code}/players", playerHandler.ListAlive).Methods(http.MethodGet)
	games.HandleFunc("/{code}/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{code}/players/{id}/kill", playerHandler.Kill).Methods(http.MethodPost)
	games.HandleFunc("/{code}/players/{id}/die", playerHandler.Die).Methods(http.MethodPost)
	games.HandleFunc("/{code}/players/{id}/new-victim", playerHandler.NewVictim).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
