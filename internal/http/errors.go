package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/auth"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/catalog"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/repository"
	"github.com/alexanderyanthar/cardz-galore-app-backend/internal/session"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// handleServiceError maps service sentinels to HTTP status codes. Anything
// unrecognized is a 500 with no internals leaked.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidUsername),
		errors.Is(err, auth.ErrInvalidPassword),
		errors.Is(err, auth.ErrUsernameTaken):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, session.ErrNotFound):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrCardNotFound),
		errors.Is(err, repository.ErrSetNotFound),
		errors.Is(err, repository.ErrCartLineNotFound),
		errors.Is(err, catalog.ErrEmptyCatalog):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrInsufficientStock):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
