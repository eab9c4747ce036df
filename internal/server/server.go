// Package server provides the HTTP REST API for the job tracker.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/filtering"
	"github.com/jonathan/job-tracker/internal/server/middleware"
	"github.com/jonathan/job-tracker/internal/server/ratelimit"
	"github.com/jonathan/job-tracker/internal/types"
)

// Tracker is the application service behind the API. *tracker.Service
// implements it.
type Tracker interface {
	SaveApplication(ctx context.Context, app *types.JobApplication) (int64, error)
	GetApplication(ctx context.Context, id int64) (*types.JobApplication, error)
	UpdateStatus(ctx context.Context, id int64, status types.ApplicationStatus, statusDate int64, notes string) error
	DeleteApplication(ctx context.Context, id int64) (*types.JobApplication, error)
	Undo(ctx context.Context) (int64, error)
	PendingUndo() (*types.JobApplication, time.Duration)
	ListApplications(ctx context.Context, q filtering.Query) ([]types.JobApplication, error)
	RecentApplications(ctx context.Context, limit int) ([]types.JobApplication, error)
	Dashboard(ctx context.Context) (types.DashboardStatistics, error)
	Analytics(ctx context.Context, dateRange *types.DateRange) (types.Analytics, error)
	StatusHistory(ctx context.Context, id int64) ([]types.StatusHistory, error)
	Communications(ctx context.Context, id int64) ([]types.Communication, error)
	AddCommunication(ctx context.Context, c *types.Communication) (int64, error)
	Location() *time.Location
}

// Backups runs exports, imports and backups. *backup.Orchestrator
// implements it.
type Backups interface {
	CreateBackup(ctx context.Context, backupType types.BackupType) (*types.CloudBackup, error)
	ExportTo(ctx context.Context, w io.Writer, location string) (*types.CloudBackup, error)
	ImportFrom(ctx context.Context, r io.Reader) (int, error)
}

// Drafter turns a job link into an unsaved application. *fetch.Drafter
// implements it.
type Drafter interface {
	Draft(ctx context.Context, url string) (*types.JobApplication, error)
}

// BackupLister lists recorded backup attempts. *db.DB implements it.
type BackupLister interface {
	ListBackups(ctx context.Context) ([]types.CloudBackup, error)
}

// Pinger reports storage health. *db.DB implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds server configuration
type Config struct {
	Port      int
	JWT       *config.JWTConfig // nil disables bearer auth
	RateLimit *ratelimit.Config // nil loads the RATE_LIMIT_* environment
}

// Dependencies are the collaborators the handlers call.
type Dependencies struct {
	Tracker Tracker
	Backups Backups
	Records BackupLister
	Health  Pinger
	Drafter Drafter // nil disables POST /applications/draft
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	tracker     Tracker
	backups     Backups
	records     BackupLister
	health      Pinger
	drafter     Drafter
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	now         func() time.Time
}

// New creates a new server instance
func New(cfg Config, deps Dependencies) *Server {
	s := &Server{
		tracker: deps.Tracker,
		backups: deps.Backups,
		records: deps.Records,
		health:  deps.Health,
		drafter: deps.Drafter,
		now:     time.Now,
	}

	rlConfig := cfg.RateLimit
	if rlConfig == nil {
		rlConfig = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rlConfig)
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	s.route(mux, "GET /applications", s.handleListApplications)
	s.route(mux, "POST /applications", s.handleCreateApplication)
	s.route(mux, "POST /applications/draft", s.handleDraftApplication)
	s.route(mux, "GET /applications/{id}", s.handleGetApplication)
	s.route(mux, "PUT /applications/{id}", s.handleUpdateApplication)
	s.route(mux, "DELETE /applications/{id}", s.handleDeleteApplication)
	s.route(mux, "POST /applications/{id}/status", s.handleUpdateStatus)
	s.route(mux, "GET /applications/{id}/history", s.handleStatusHistory)
	s.route(mux, "GET /applications/{id}/communications", s.handleListCommunications)
	s.route(mux, "POST /applications/{id}/communications", s.handleAddCommunication)

	s.route(mux, "GET /undo", s.handleUndoStatus)
	s.route(mux, "POST /undo", s.handleUndo)

	s.route(mux, "GET /dashboard", s.handleDashboard)
	s.route(mux, "GET /recent", s.handleRecent)
	s.route(mux, "GET /analytics", s.handleAnalytics)

	s.route(mux, "GET /export", s.handleExport)
	s.route(mux, "POST /import", s.handleImport)
	s.route(mux, "GET /backups", s.handleListBackups)
	s.route(mux, "POST /backups", s.handleCreateBackup)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// route registers h behind bearer auth when a JWT secret is configured.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	if s.jwtService == nil {
		mux.Handle(pattern, h)
		return
	}
	mux.Handle(pattern, middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h))
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[server] shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.rateLimiter.Stop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("[server] stopped")
	return nil
}

// Close stops background work without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[server] %s %s %s completed in %v", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status and writes its message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[server] %s %s failed: %v", r.Method, r.URL.Path, err)
	}
	s.errorResponse(w, status, err.Error())
}

// clientID identifies the caller by IP address.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":   "rate_limit_exceeded",
		"message": "Rate limit exceeded. Please try again later.",
		"limit":   info.Limit,
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}
	log.Printf("[rate-limit] limit %d exceeded, retry after %v", info.Limit, info.RetryAfter)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
