package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/sourcing-cli/internal/resilience"
	"github.com/sells-group/sourcing-cli/internal/session"
	"github.com/sells-group/sourcing-cli/pkg/sentrichain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeAppError maps session and upstream errors to HTTP status codes.
func writeAppError(w http.ResponseWriter, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("api: request failed", zap.Int("status", status), zap.Error(err))
	}
	writeError(w, status, msg)
}

func classify(err error) (int, string) {
	var invalid *session.InvalidProfileError
	var apiErr *sentrichain.APIError

	switch {
	case errors.Is(err, session.ErrStaleAnalysis):
		return http.StatusConflict, "analysis superseded by a newer selection"
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Error()
	case resilience.IsUnauthorized(err):
		return http.StatusUnauthorized, sentrichain.Message(err)
	case resilience.IsTransient(err):
		return http.StatusServiceUnavailable, sentrichain.Message(err)
	case errors.As(err, &apiErr):
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			return http.StatusNotFound, apiErr.Message
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return http.StatusBadRequest, apiErr.Message
		}
		return http.StatusBadGateway, apiErr.Message
	}
	return http.StatusInternalServerError, "internal server error"
}
