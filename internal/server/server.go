// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mcp-meal-map/internal/metrics"
	"mcp-meal-map/internal/pipeline"
)

type Config struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
}

// MealMapServer serves one loaded session read-only over REST and MCP
// tool calls.
type MealMapServer struct {
	httpServer *http.Server
	session    *pipeline.Session
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
	tools      map[string]toolHandler
	logger     *slog.Logger
	config     *Config
}

func NewMealMapServer(cfg *Config, session *pipeline.Session, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *slog.Logger) (*MealMapServer, error) {
	if session == nil || session.Snapshot == nil {
		return nil, errors.New("session with snapshot is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &MealMapServer{
		session:  session,
		metrics:  m,
		gatherer: gatherer,
		logger:   logger.With(slog.String("component", "server")),
		config:   cfg,
	}
	s.registerTools()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
	}
	return s, nil
}

// Routes returns the full HTTP handler.
func (s *MealMapServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(withCORS)
	r.Use(newRateLimiter(s.config.RateLimitRPS, s.config.RateLimitBurst))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/frequency", s.handleFrequency)
		r.Get("/frequency/hourly", s.handleHourlyFrequency)
		r.Get("/nutrition", s.handleNutrition)
		r.Get("/time-of-day", s.handleTimeOfDay)
		r.Get("/stats", s.handleStats)
		r.Get("/slots/{day}/{hour}", s.handleSlot)
	})

	r.Post("/mcp", s.handleMCP)
	r.Get("/mcp/tools", s.handleListTools)

	return r
}

func (s *MealMapServer) Start(ctx context.Context) error {
	s.logger.Info("starting meal map server", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *MealMapServer) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
