package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "failed to marshal response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, errorResponse{Error: message})
}

// statusFromError maps lifecycle error kinds to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrNoFieldsProvided):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrWrongTokenUse),
		errors.Is(err, common.ErrTokenMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrAccountNotFound), errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateAccount):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError translates a service error into a response. Unknown
// errors never expose their details.
func respondServiceError(w http.ResponseWriter, err error) {
	code := statusFromError(err)
	if code == http.StatusInternalServerError {
		respondError(w, code, "internal error")
		return
	}
	respondError(w, code, err.Error())
}
