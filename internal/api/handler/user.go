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
	"github.com/assassin-game/assassin-go/internal/services/auth"
)

// UserHandler handles user-related endpoints
type UserHandler struct {
	authService *auth.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *auth.Service) *UserHandler {
	return &UserHandler{authService: authService}
}

// SignUp handles POST /api/v1/users
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req request.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewBadRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewBadRequestError("name is required"))
		return
	}

	user, token, err := h.authService.SignUp(r.Context(), req.Name, req.MessagingToken)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SignUpResponse{
		User:      response.UserFromModel(user),
		AuthToken: token,
	})
}

// Update handles PATCH /api/v1/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.UserID(mux.Vars(r)["id"])
	if id != user.ID {
		WriteError(w, apierr.NewPermissionDeniedError("cannot modify another user"))
		return
	}

	var req request.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewBadRequestError("invalid request body"))
		return
	}
	if req.Name != nil && *req.Name == "" {
		WriteError(w, NewBadRequestError("name cannot be empty"))
		return
	}

	updated, err := h.authService.Update(r.Context(), user.ID, middleware.BearerToken(r), auth.UserUpdate{
		Name:           req.Name,
		MessagingToken: req.MessagingToken,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(updated))
}
