package rest

import (
	"context"
	core_port "estatemap/internal/core/port"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// Server - REST API сервер.
type Server struct {
	httpServer *http.Server
	router     http.Handler
	logger     core_port.LoggerPort
}

func NewServer(cfg ServerConfig, handlers *EstateMapHandlers, baseLogger core_port.LoggerPort) *Server {
	r := NewRouter(cfg, handlers, baseLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		httpServer: srv,
		router:     r,
		logger:     baseLogger.WithFields(core_port.Fields{"component": "rest_server"}),
	}
}

// NewRouter собирает маршруты; отдельно от Server, чтобы тесты работали
// через httptest без сокета.
func NewRouter(cfg ServerConfig, handlers *EstateMapHandlers, baseLogger core_port.LoggerPort) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", traceIDHeader},
		ExposedHeaders:   []string{traceIDHeader, degradedHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/properties", handlers.FindListings)
		r.Get("/properties/{propertyID}", handlers.GetListing)
		r.Get("/dashboard", handlers.LoadDashboard)
		r.Get("/markers", handlers.ListMarkers)
		r.Post("/enquiry", handlers.SubmitEnquiry)
		r.Get("/seed", handlers.SeedListings)
	})

	return r
}

func (s *Server) Handler() http.Handler { return s.router }

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
