package handler

import (
	"net/http"

	"github.com/assassin-game/assassin-go/internal/api/apierr"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewBadRequestError creates a malformed request error
func NewBadRequestError(message string) error {
	return apierr.NewBadRequestError(message)
}
