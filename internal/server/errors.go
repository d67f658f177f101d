package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/emrgen/compliance/internal/service"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError maps the service taxonomy to a stable machine-readable kind and
// status. Internals are never leaked; unknown errors collapse to a generic
// 500.
func writeError(w http.ResponseWriter, err error) {
	kind, status := classify(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logrus.Errorf("internal error: %v", err)
		message = "internal error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{
		Error:   kind,
		Message: message,
	})
}

func classify(err error) (string, int) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return "not_found", http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return "forbidden", http.StatusForbidden
	case errors.Is(err, service.ErrMismatch):
		return "mismatch", http.StatusBadRequest
	case errors.Is(err, service.ErrSelfRelation):
		return "self_relation", http.StatusBadRequest
	case errors.Is(err, service.ErrCrossScope):
		return "cross_scope", http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateRelation):
		return "duplicate_relation", http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return "conflict", http.StatusConflict
	case errors.Is(err, service.ErrStorage):
		return "storage_failure", http.StatusInternalServerError
	case errors.Is(err, service.ErrInvalidArgument):
		return "invalid_argument", http.StatusBadRequest
	default:
		return "internal", http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.Errorf("failed to encode response: %v", err)
	}
}
