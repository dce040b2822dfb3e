package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/assassin-game/assassin-go/internal/api/apierr"
	"github.com/assassin-game/assassin-go/internal/api/middleware"
	"github.com/assassin-game/assassin-go/internal/api/request"
	"github.com/assassin-game/assassin-go/internal/api/response"
	"github.com/assassin-game/assassin-go/internal/model"
	"github.com/assassin-game/assassin-go/internal/services/death"
	"github.com/assassin-game/assassin-go/internal/services/roster"
)

// PlayerHandler handles roster and kill-reporting endpoints
type PlayerHandler struct {
	rosterController *roster.Controller
	deathController  *death.Controller
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(rosterController *roster.Controller, deathController *death.Controller) *PlayerHandler {
	return &PlayerHandler{
		rosterController: rosterController,
		deathController:  deathController,
	}
}

// Join handles POST /api/v1/games/{code}/players
func (h *PlayerHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	code := model.GameCode(mux.Vars(r)["code"])

	p, err := h.rosterController.Join(r.Context(), code, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(p))
}

// Get handles GET /api/v1/games/{code}/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	code := model.GameCode(vars["code"])
	id := model.UserID(vars["id"])

	p, err := h.rosterController.GetPlayer(r.Context(), code, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// ListAlive handles GET /api/v1/games/{code}/players
func (h *PlayerHandler) ListAlive(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])

	players, err := h.rosterController.ListAlivePlayers(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerListFromModel(players))
}

// Kill handles POST /api/v1/games/{code}/players/{id}/kill
// The path names the victim; the murderer is the authenticated caller.
func (h *PlayerHandler) Kill(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	vars := mux.Vars(r)
	code := model.GameCode(vars["code"])
	victim := model.UserID(vars["id"])

	var req request.KillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewBadRequestError("invalid request body"))
		return
	}
	if req.Weapon == "" {
		WriteError(w, NewBadRequestError("weapon is required"))
		return
	}

	p, err := h.deathController.ReportDeath(r.Context(), code, user.ID, victim, req.Weapon)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// Die handles POST /api/v1/games/{code}/players/{id}/die
// Players confirm only their own death.
func (h *PlayerHandler) Die(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	vars := mux.Vars(r)
	code := model.GameCode(vars["code"])
	victim := model.UserID(vars["id"])
	if victim != user.ID {
		WriteError(w, apierr.NewPermissionDeniedError("cannot confirm another player's death"))
		return
	}

	var req request.DieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewBadRequestError("invalid request body"))
		return
	}

	p, err := h.deathController.ConfirmDeath(r.Context(), code, victim, req.LastWords)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(p))
}

// NewVictim handles POST /api/v1/games/{code}/players/{id}/new-victim
func (h *PlayerHandler) NewVictim(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	vars := mux.Vars(r)
	code := model.GameCode(vars["code"])
	id := model.UserID(vars["id"])
	if id != user.ID {
		WriteError(w, apierr.NewPermissionDeniedError("cannot request a new victim for another player"))
		return
	}

	if err := h.rosterController.RequestNewVictim(r.Context(), code, id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Shuffle handles POST /api/v1/games/{code}/shuffle-victims
func (h *PlayerHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	code := model.GameCode(mux.Vars(r)["code"])

	if err := h.rosterController.ShuffleVictims(r.Context(), code, user.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
