// Package http exposes the session's collections over a small JSON API: the
// reload/CRUD/render contract consumed by the UI, plus the import and export
// endpoints. Rendering itself (charts, layout) lives outside this module.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	applog "timeline/internal/log"
	"timeline/internal/middleware/ratelimit"
	"timeline/internal/services"
)

type Server struct {
	http.Server
	activities *services.ActivityService
	categories *services.CategoryService
	limiter    *ratelimit.Limiter
	logger     *applog.Logger
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, acts *services.ActivityService, cats *services.CategoryService, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.Config{Component: applog.ComponentHTTP})
	}
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		activities: acts,
		categories: cats,
		limiter:    ratelimit.New(30),
		logger:     logger.WithComponent(applog.ComponentHTTP),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /reload", s.wrap(s.handleReload))

	mux.HandleFunc("GET /activities", s.wrap(s.handleListActivities))
	mux.HandleFunc("POST /activities", s.wrap(s.handleCreateActivity))
	mux.HandleFunc("PUT /activities/{id}", s.wrap(s.handleUpdateActivity))
	mux.HandleFunc("DELETE /activities/{id}", s.wrap(s.handleDeleteActivity))
	mux.HandleFunc("DELETE /activities", s.wrap(s.handleClearActivities))
	mux.HandleFunc("GET /summary", s.wrap(s.handleSummary))

	mux.HandleFunc("GET /categories", s.wrap(s.handleListCategories))
	mux.HandleFunc("POST /categories", s.wrap(s.handleCreateCategory))
	mux.HandleFunc("PUT /categories/{name}", s.wrap(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /categories/{name}", s.wrap(s.handleDeleteCategory))

	mux.HandleFunc("GET /export/csv", s.wrap(s.handleExportCSV))
	mux.HandleFunc("GET /export/bundle", s.wrap(s.handleExportBundle))
	mux.HandleFunc("GET /export/workbook", s.wrap(s.handleExportWorkbook))
	// Imports parse uploaded documents, so they sit behind the limiter.
	mux.HandleFunc("POST /import/csv", s.limiter.Wrap(s.wrap(s.handleImportCSV)))
	mux.HandleFunc("POST /import/bundle", s.limiter.Wrap(s.wrap(s.handleImportBundle)))
	mux.HandleFunc("POST /import/workbook", s.limiter.Wrap(s.wrap(s.handleImportWorkbook)))
	mux.HandleFunc("POST /import/categories", s.limiter.Wrap(s.wrap(s.handleImportCategoriesJSON)))

	return s
}

// Shutdown stops the limiter's housekeeping along with the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

// wrap adds request logging, a request ID and response headers to a handler.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), applog.LoggerContextKey, s.logger.With(applog.FieldRequestID, requestID))
		r = r.WithContext(ctx)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
