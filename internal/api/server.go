// Package api exposes the session tracker and the job registry over HTTP.
//
// Every operator-scoped route lives under /api/operators/{op}/. The caller
// is trusted to have authenticated the operator; role checks belong to
// whatever sits in front of this server.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/service"
	"github.com/alexanderramin/jobshop/internal/tracker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SessionTracker is the subset of tracker.Tracker the API drives.
type SessionTracker interface {
	Refresh(ctx context.Context, operatorID string) (bool, error)
	StartJob(ctx context.Context, operatorID, jobID, notes string) (*domain.TimeLogEntry, error)
	AddBreak(ctx context.Context, operatorID string, minutes int, reason string) (*domain.TimeLogEntry, error)
	CompleteOrClockOut(ctx context.Context, operatorID, jobID, notes string, score int) (*tracker.Completion, error)
	TogglePause(operatorID string) bool
	ElapsedTime(operatorID string) time.Duration
	TodaysStatistics(operatorID string) domain.DailyStats
	Snapshot(operatorID string) tracker.Snapshot
}

// Config holds configuration for the HTTP server.
type Config struct {
	// Addr to listen on (default: ":8080").
	Addr string

	// ReadTimeout is the max time to read a request (default: 15s).
	ReadTimeout time.Duration

	// WriteTimeout is the max time to write a response (default: 30s).
	WriteTimeout time.Duration
}

// Deps are the collaborators the handlers call into. Gatherer may be nil,
// in which case /metrics is not registered. When Shop is nil the session
// routes accept any operator ID.
type Deps struct {
	Tracker  SessionTracker
	Jobs     service.JobService
	Shop     service.ShopService
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Server is the jobshop HTTP API.
type Server struct {
	config  Config
	deps    Deps
	logger  *slog.Logger
	mux     *http.ServeMux
	handler http.Handler
	server  *http.Server
}

func NewServer(cfg Config, deps Deps) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		config: cfg,
		deps:   deps,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.routes()
	s.handler = s.loggingMiddleware(s.mux)
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	s.mux.HandleFunc("POST /api/jobs", s.handleCreateJob)
	s.mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	s.mux.HandleFunc("POST /api/jobs/{id}/assign", s.handleAssignJob)
	s.mux.HandleFunc("POST /api/jobs/{id}/cancel", s.handleCancelJob)

	s.mux.HandleFunc("GET /api/operators", s.handleListOperators)
	s.mux.HandleFunc("POST /api/operators", s.handleCreateOperator)
	s.mux.HandleFunc("GET /api/machines", s.handleListMachines)
	s.mux.HandleFunc("POST /api/machines", s.handleCreateMachine)

	s.mux.HandleFunc("GET /api/operators/{op}/session", s.knownOperator(s.handleSession))
	s.mux.HandleFunc("POST /api/operators/{op}/refresh", s.knownOperator(s.handleRefresh))
	s.mux.HandleFunc("POST /api/operators/{op}/clock-in", s.knownOperator(s.handleClockIn))
	s.mux.HandleFunc("POST /api/operators/{op}/break", s.knownOperator(s.handleBreak))
	s.mux.HandleFunc("POST /api/operators/{op}/pause", s.knownOperator(s.handlePause))
	s.mux.HandleFunc("POST /api/operators/{op}/clock-out", s.knownOperator(s.handleClockOut))
	s.mux.HandleFunc("POST /api/operators/{op}/complete", s.knownOperator(s.handleComplete))
	s.mux.HandleFunc("GET /api/operators/{op}/stats/today", s.knownOperator(s.handleStatsToday))

	if s.deps.Gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
	}
}

// Handler returns the routed handler with request logging applied.
func (s *Server) Handler() http.Handler { return s.handler }

// Addr is the configured listen address.
func (s *Server) Addr() string { return s.config.Addr }

// Start begins listening. Blocks until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("http server listening", "addr", s.config.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs every request with its status and latency.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= 500 {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
