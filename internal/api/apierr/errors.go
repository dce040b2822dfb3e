package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/assassin-game/assassin-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeAuthFailed          = "AUTH_FAILED"
	CodePermissionDenied    = "PERMISSION_DENIED"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeAlreadyJoined       = "ALREADY_JOINED"
	CodeNotYourVictim       = "NOT_YOUR_VICTIM"
	CodeIllegalState        = "ILLEGAL_STATE"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeCorruptRecord       = "CORRUPT_RECORD"
	CodeContention          = "CONTENTION"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrAuthFailed):
		return &httpError{http.StatusUnauthorized, APIError{CodeAuthFailed, "Invalid user id or token"}}
	case errors.Is(err, model.ErrNotCreator):
		return &httpError{http.StatusForbidden, APIError{CodePermissionDenied, "Only the game's creator can perform this action"}}
	case errors.Is(err, model.ErrNotYourVictim):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourVictim, "That player is not your victim"}}
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found in this game"}}
	case errors.Is(err, model.ErrAlreadyJoined):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyJoined, "Already joined this game"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "Not enough players"}}
	case errors.Is(err, model.ErrGameOver):
		return &httpError{http.StatusConflict, APIError{CodeIllegalState, "Game is over"}}
	case errors.Is(err, model.ErrGameNotRunning):
		return &httpError{http.StatusConflict, APIError{CodeIllegalState, "Game has not started"}}
	case errors.Is(err, model.ErrGameAlreadyStarted):
		return &httpError{http.StatusConflict, APIError{CodeIllegalState, "Game already started"}}
	case errors.Is(err, model.ErrPlayerNotAlive):
		return &httpError{http.StatusConflict, APIError{CodeIllegalState, "Player is not alive"}}
	case errors.Is(err, model.ErrPlayerNotDying):
		return &httpError{http.StatusConflict, APIError{CodeIllegalState, "Player is not awaiting death confirmation"}}
	case errors.Is(err, model.ErrCorruptRecord):
		return &httpError{http.StatusInternalServerError, APIError{CodeCorruptRecord, "A stored record failed validation"}}
	case errors.Is(err, model.ErrContention):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeContention, "Too much write contention, retry"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewBadRequestError creates a malformed request error
func NewBadRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeBadRequest, message}}
}

// NewPermissionDeniedError creates a permission denied error
func NewPermissionDeniedError(message string) error {
	return &httpError{http.StatusForbidden, APIError{CodePermissionDenied, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeAuthFailed, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
