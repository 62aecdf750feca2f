// internal/api/server.go

// Package api exposes the simulation engine over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kpi-prediction-service/internal/common/config"
	"kpi-prediction-service/internal/common/logger"
	"kpi-prediction-service/internal/engine"
	"kpi-prediction-service/internal/session"
)

// Server is the HTTP front of the prediction service.
type Server struct {
	router  *chi.Mux
	handler *Handler
	server  *http.Server
	config  config.ServerConfig
	logger  logger.Logger
}

// NewServer wires the router and handlers.
func NewServer(cfg config.ServerConfig, eng *engine.Engine, store session.Store, log logger.Logger) *Server {
	handler := NewHandler(eng, store, log)
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(log))
	router.Use(middleware.Compress(5))

	router.Get("/api/health", handler.Health)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Post("/simulate", handler.Simulate)
		r.Get("/baseline", handler.Baseline)

		r.Post("/sessions", handler.CreateSession)
		r.Post("/sessions/{id}/reset", handler.ResetSession)
		r.Delete("/sessions/{id}", handler.DeleteSession)
	})

	return &Server{
		router:  router,
		handler: handler,
		config:  cfg,
		logger:  log,
	}
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("HTTP server listening", map[string]interface{}{
		"address": s.config.Address,
	})
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router exposes the mux for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug("HTTP request", map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"durationMs": time.Since(start).Milliseconds(),
			})
		})
	}
}
