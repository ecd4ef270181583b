package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"timeline/internal/core"
	applog "timeline/internal/log"
)

// maxImportBytes caps uploaded import payloads.
const maxImportBytes = 10 << 20 // 10MB

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy to status codes so every failure kind
// stays distinguishable to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind, status := classify(err)
	if status >= 500 {
		applog.FromContext(r.Context()).Error("Request failed", applog.FieldError, err, applog.FieldPath, r.URL.Path)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func classify(err error) (kind string, status int) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return "invalid_input", http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrFormat):
		return "format", http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrSchema):
		return "schema", http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrDuplicateCategory):
		return "duplicate_category", http.StatusConflict
	case errors.Is(err, core.ErrLastCategory):
		return "last_category", http.StatusConflict
	case errors.Is(err, core.ErrNotFound):
		return "not_found", http.StatusNotFound
	case errors.Is(err, core.ErrBackend):
		return "backend", http.StatusBadGateway
	default:
		return "internal", http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxImportBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

func readBody(r *http.Request) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
}
