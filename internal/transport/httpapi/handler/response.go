package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/Fuzara/cashcraft/internal/shared/errors"
	"github.com/Fuzara/cashcraft/internal/platform/user"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, ErrorResponse{Error: message}, statusCode)
}

// respondAppError maps domain errors to HTTP status codes
func respondAppError(w http.ResponseWriter, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		respondError(w, appErr.Message, statusForCode(appErr.Code))
		return
	}

	switch {
	case errors.Is(err, user.ErrInvalidPassword),
		errors.Is(err, user.ErrUnauthorized):
		respondError(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, user.ErrUserAlreadyExists):
		respondError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrPasswordTooShort):
		respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, user.ErrUserNotFound):
		respondError(w, err.Error(), http.StatusNotFound)
	default:
		respondError(w, "internal server error", http.StatusInternalServerError)
	}
}

func statusForCode(code string) int {
	switch code {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeBadRequest:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
