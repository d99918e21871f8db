package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/logger"
)

const maxBodyBytes = 1 << 20

// Problem is an RFC 7807 problem details body.
type Problem struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Field  string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// writeError maps domain error kinds to status codes. Anything that is not a
// caller error becomes a 500 without internal detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	de, _ := domain.AsError(err)

	switch {
	case errors.Is(err, domain.ErrValidation):
		p := Problem{Title: "Validation failed", Status: http.StatusBadRequest}
		if de != nil {
			p.Detail, p.Field = de.Message, de.Field
		}
		writeProblem(w, p)
	case errors.Is(err, domain.ErrNotFound):
		p := Problem{Title: "Not found", Status: http.StatusNotFound}
		if de != nil {
			p.Detail = de.Message
		}
		writeProblem(w, p)
	case errors.Is(err, domain.ErrConflict):
		p := Problem{Title: "Conflict", Status: http.StatusConflict}
		if de != nil {
			p.Detail = de.Message
		}
		writeProblem(w, p)
	default:
		if !errors.Is(err, domain.ErrStorage) {
			logger.ErrorContext(r.Context(), "Unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
		}
		writeProblem(w, Problem{Title: "Internal server error", Status: http.StatusInternalServerError})
	}
}

// decodeJSON reads a single JSON document into target. Malformed bodies are
// validation errors so they surface as 400.
func decodeJSON(r *http.Request, target any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(target); err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return err
		}
		return domain.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	return nil
}

// list keeps empty collections as [] on the wire.
func list[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
