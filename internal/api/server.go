package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tabstat/internal"
	"tabstat/internal/compute"
	"tabstat/internal/errors"
	"tabstat/internal/session"
)

// Options holds HTTP server settings
type Options struct {
	Port            string
	ShutdownTimeout time.Duration
}

// Server exposes the loaded table, its statistics and chart series over HTTP
type Server struct {
	router  *chi.Mux
	session *session.Session
	runner  *compute.Runner
	events  *EventHub
	opts    Options
	logger  *internal.Logger
}

// NewServer wires the routes over a session and a runner
func NewServer(sess *session.Session, runner *compute.Runner, opts Options, logger *internal.Logger) *Server {
	if opts.Port == "" {
		opts.Port = "8080"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{
		router:  chi.NewRouter(),
		session: sess,
		runner:  runner,
		events:  NewEventHub(logger),
		opts:    opts,
		logger:  logger.WithComponent("API"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.Get("/api/status", s.handleStatus)

	// Table loading and preview
	s.router.Post("/api/tables", s.handleLoadTable)
	s.router.Get("/api/tables/preview", s.handlePreview)

	// Statistics
	s.router.Get("/api/stats", s.handleAllStats)
	s.router.Get("/api/stats/{statistic}", s.handleStat)
	s.router.Post("/api/stats/requests", s.handleSubmitStats)
	s.router.Get("/api/events", s.events.ServeHTTP)

	// Chart series
	s.router.Get("/api/plots/{kind}", s.handlePlot)

	s.router.Get("/api/report", s.handleReport)
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.opts.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting tabstat API on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.events.Close()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down API")
	err := srv.Shutdown(shutdownCtx)
	s.events.Close()
	return err
}

// JSON helpers

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed: %v", err)
	} else {
		s.logger.Debug("Request rejected: %v", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error(), Code: errors.Code(err)})
}

func (s *Server) snapshot(w http.ResponseWriter) (*session.Snapshot, bool) {
	snap, ok := s.session.Current()
	if !ok {
		s.writeError(w, errors.InvalidInput("no data loaded"))
		return nil, false
	}
	return snap, true
}
