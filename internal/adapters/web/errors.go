package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"jewelry-ledger/internal/app"
	"jewelry-ledger/internal/core"
	"jewelry-ledger/internal/logger"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps service errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var pe *core.PersistenceError
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrValidation):
		writeError(w, r, err.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
	case errors.As(err, &pe):
		// Memory already holds the change; the client should retry via /api/session/save.
		logger.FromContext(r.Context()).Error("document write failed", zap.Error(err))
		writeError(w, r, err.Error(), "PERSISTENCE_ERROR", http.StatusServiceUnavailable)
	case errors.Is(err, core.ErrUnauthenticated):
		writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
	case errors.Is(err, core.ErrNotReady):
		writeError(w, r, "no open session", "NOT_READY", http.StatusServiceUnavailable)
	case errors.Is(err, app.ErrAgentUnavailable):
		writeError(w, r, err.Error(), "AI_UNAVAILABLE", http.StatusNotImplemented)
	default:
		logger.FromContext(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
