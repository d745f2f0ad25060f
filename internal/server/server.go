// ABOUTME: HTTP API server exposing proposal generation, portfolio, tracking, document, and profile endpoints
// ABOUTME: Routes use net/http method patterns; middleware adds request logging and per-request timeouts
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/proposal-forge/internal/core"
	"github.com/harper/proposal-forge/internal/logging"
)

// Server serves the JSON API over the domain services
type Server struct {
	services *core.Services
	timeout  time.Duration
	logger   *log.Logger
	mux      *http.ServeMux
}

// New creates a server. timeout bounds each request, including LLM calls.
func New(services *core.Services, timeout time.Duration, logger *log.Logger) *Server {
	s := &Server{
		services: services,
		timeout:  timeout,
		logger:   logging.Component(logger, "http"),
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/proposals/generate", s.handleGenerate)
	s.mux.HandleFunc("POST /api/proposals/generate/custom", s.handleGenerateCustom)
	s.mux.HandleFunc("GET /api/proposals", s.handleListProposals)
	s.mux.HandleFunc("GET /api/proposals/search", s.handleSearchProposals)
	s.mux.HandleFunc("GET /api/proposals/stats", s.handleProposalStats)
	s.mux.HandleFunc("GET /api/proposals/{id}", s.handleGetProposal)
	s.mux.HandleFunc("DELETE /api/proposals/{id}", s.handleDeleteProposal)

	s.mux.HandleFunc("POST /api/portfolio", s.handleCreateProject)
	s.mux.HandleFunc("GET /api/portfolio", s.handleListProjects)
	s.mux.HandleFunc("POST /api/portfolio/similar", s.handleSimilar)
	s.mux.HandleFunc("GET /api/portfolio/{id}", s.handleGetProject)
	s.mux.HandleFunc("PUT /api/portfolio/{id}", s.handleUpdateProject)
	s.mux.HandleFunc("DELETE /api/portfolio/{id}", s.handleDeleteProject)

	s.mux.HandleFunc("POST /api/tracking", s.handleCreateTracking)
	s.mux.HandleFunc("GET /api/tracking", s.handleListTracking)
	s.mux.HandleFunc("GET /api/tracking/stats", s.handleTrackingStats)
	s.mux.HandleFunc("GET /api/tracking/{id}", s.handleGetTracking)
	s.mux.HandleFunc("PATCH /api/tracking/{id}", s.handleUpdateTracking)
	s.mux.HandleFunc("DELETE /api/tracking/{id}", s.handleDeleteTracking)

	s.mux.HandleFunc("POST /api/documents", s.handleCreateDocuments)
	s.mux.HandleFunc("GET /api/documents", s.handleListDocuments)
	s.mux.HandleFunc("POST /api/documents/search", s.handleSearchDocuments)
	s.mux.HandleFunc("GET /api/documents/{id}", s.handleGetDocument)
	s.mux.HandleFunc("DELETE /api/documents/{id}", s.handleDeleteDocument)

	s.mux.HandleFunc("GET /api/profile", s.handleGetProfile)
	s.mux.HandleFunc("PUT /api/profile", s.handleSaveProfile)
}

// Handler returns the routed handler wrapped in middleware
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.withTimeout(s.mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.timeout + 10*time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logFn := s.logger.Info
		if rec.status >= http.StatusInternalServerError {
			logFn = s.logger.Error
		}
		logFn("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) withTimeout(next http.Handler) http.Handler {
	if s.timeout <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
