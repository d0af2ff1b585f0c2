package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/starford/quill/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps err to a status code and writes its message.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody(err.Error()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidArgument), errors.Is(err, apperr.ErrInvalidPattern):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrWorkspaceNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
