package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/assassin-game/assassin-go/internal/api/middleware"
	"github.com/assassin-game/assassin-go/internal/api/request"
	"github.com/assassin-game/assassin-go/internal/api/response"
	"github.com/assassin-game/assassin-go/internal/model"
	"github.com/assassin-game/assassin-go/internal/services/game"
)

// GameHandler handles game lifecycle endpoints
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{gameController: gameController}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewBadRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewBadRequestError("name is required"))
		return
	}
	if req.End.IsZero() {
		WriteError(w, NewBadRequestError("end is required"))
		return
	}

	g, err := h.gameController.CreateGame(r.Context(), user.ID, req.Name, req.End)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// Get handles GET /api/v1/games/{code}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])

	g, err := h.gameController.GetGame(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// UpdateConfig handles PATCH /api/v1/games/{code}
func (h *GameHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	code := model.GameCode(mux.Vars(r)["code"])

	var req request.UpdateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewBadRequestError("invalid request body"))
		return
	}
	if req.Name != nil && *req.Name == "" {
		WriteError(w, NewBadRequestError("name cannot be empty"))
		return
	}

	g, err := h.gameController.UpdateConfig(r.Context(), code, user.ID, model.GameConfigUpdate{
		Name: req.Name,
		End:  req.End,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Start handles POST /api/v1/games/{code}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	code := model.GameCode(mux.Vars(r)["code"])

	g, err := h.gameController.Start(r.Context(), code, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Finish handles POST /api/v1/games/{code}/finish
func (h *GameHandler) Finish(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	code := model.GameCode(mux.Vars(r)["code"])

	g, err := h.gameController.Finish(r.Context(), code, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}
