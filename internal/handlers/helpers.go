package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/apperrors"
)

// Common error message constants shared across handlers
const (
	ErrMsgInvalidRequestBody = "Invalid request body"
	ErrMsgUnauthorized       = "Unauthorized"
	ErrMsgInvalidID          = "Invalid ID"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.WriteHeader(code)
	if err := JSONResponse(w, payload); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error"}`))
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps the service error taxonomy onto HTTP status
// codes. Unknown errors are logged and hidden behind a 500.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case apperrors.IsInsufficientBalance(err):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case apperrors.IsPermissionDenied(err):
		respondWithError(w, http.StatusForbidden, err.Error())
	case apperrors.IsNotFound(err):
		respondWithError(w, http.StatusNotFound, err.Error())
	case apperrors.IsConflict(err):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("Request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// pathID parses a numeric path parameter
func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 32)
	if err != nil {
		return 0, errors.New("invalid " + name)
	}
	return uint(id), nil
}
