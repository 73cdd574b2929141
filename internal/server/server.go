package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sozercan/palestine-timeline/apimodels"
	"github.com/sozercan/palestine-timeline/internal/config"
	"github.com/sozercan/palestine-timeline/internal/session"
	"github.com/sozercan/palestine-timeline/internal/timeline"
)

const shutdownTimeout = 30 * time.Second

type Server struct {
	cfg      config.ServerConfig
	server   *http.Server
	router   *chi.Mux
	timeline *timeline.Service

	// Narratives and analytics supersede independently.
	narratives *session.Tracker[*apimodels.TimelineResponse]
	analytics  *session.Tracker[*apimodels.AnalyticsResponse]
}

func New(cfg config.Config, svc *timeline.Service) *Server {
	s := &Server{
		cfg:        cfg.Server,
		router:     chi.NewRouter(),
		timeline:   svc,
		narratives: session.NewTracker[*apimodels.TimelineResponse](cfg.Session.TTL),
		analytics:  session.NewTracker[*apimodels.AnalyticsResponse](cfg.Session.TTL),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	// HTML page
	s.router.Get("/", s.handleIndex)
	s.router.Post("/", s.handleSubmit)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/timeline", s.handleTimeline)
		r.Get("/timeline/download", s.handleDownload)
		r.Get("/analytics", s.handleAnalytics)
		r.Post("/itinerary", s.handleItinerary)
		r.Get("/cities", s.handleCities)
		r.Get("/health", s.handleHealth)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(rw, r)

		slog.Info("HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start),
			"remote_addr", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) Run() error {
	// Create a channel to listen for errors coming from the listener
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("Starting server", "address", s.server.Addr)
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info("Starting shutdown", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	return nil
}

// Custom response writer to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}
