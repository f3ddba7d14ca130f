// cmd/meal-map/app.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"mcp-meal-map/internal/config"
	"mcp-meal-map/internal/loader"
	"mcp-meal-map/internal/logging"
	"mcp-meal-map/internal/metrics"
	"mcp-meal-map/internal/models"
	"mcp-meal-map/internal/pipeline"
	"mcp-meal-map/internal/query"
	"mcp-meal-map/internal/server"
)

// App carries the state shared by the subcommands. Flag values override
// the resolved configuration.
type App struct {
	configPath string
	frequency  string
	nutrition  string
	classMap   string
	strict     bool

	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

// init resolves configuration and builds the logger. Logs go to stderr
// so that summarize and lookup keep stdout for JSON.
func (a *App) init(logOut io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.frequency != "" {
		cfg.Sources.Frequency = a.frequency
	}
	if a.nutrition != "" {
		cfg.Sources.Nutrition = a.nutrition
	}
	if a.classMap != "" {
		cfg.Sources.ClassMap = a.classMap
	}
	if a.strict {
		cfg.Loader.Strict = true
	}

	a.cfg = cfg
	a.logger = logging.New(cfg.Logging, logOut)
	slog.SetDefault(a.logger)
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(a.registry)
	return nil
}

func (a *App) loadSession(ctx context.Context) (*pipeline.Session, error) {
	var classMap map[string]models.FoodClass
	if a.cfg.Sources.ClassMap != "" {
		m, err := loader.LoadClassMap(a.cfg.Sources.ClassMap)
		if err != nil {
			return nil, err
		}
		classMap = m
	}

	l := loader.New(loader.Options{
		Timeout:  a.cfg.Loader.Timeout,
		Strict:   a.cfg.Loader.Strict,
		MaxBytes: a.cfg.Loader.MaxBytes,
		ClassMap: classMap,
	}, a.logger)

	return pipeline.New(l, a.metrics, a.logger).Run(ctx, pipeline.Sources{
		Frequency: a.cfg.Sources.Frequency,
		Nutrition: a.cfg.Sources.Nutrition,
	}), nil
}

// Serve loads one session and serves it until SIGINT or SIGTERM. A failed
// load still serves, reporting degraded health.
func (a *App) Serve() error {
	if err := a.init(os.Stderr); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := a.loadSession(ctx)
	if err != nil {
		return err
	}

	srv, err := server.NewMealMapServer(&server.Config{
		Host:            a.cfg.Server.Host,
		Port:            a.cfg.Server.Port,
		ReadTimeout:     a.cfg.Server.ReadTimeout,
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
		RateLimitRPS:    a.cfg.Server.RateLimitRPS,
		RateLimitBurst:  a.cfg.Server.RateLimitBurst,
	}, session, a.metrics, a.registry, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-sigCh:
		a.logger.Info("received shutdown signal")
	case serveErr = <-errCh:
		a.logger.Error("server error", slog.String("error", serveErr.Error()))
	}

	a.logger.Info("shutting down")
	cancel()
	if err := srv.Stop(); err != nil {
		a.logger.Error("error during shutdown", slog.String("error", err.Error()))
	}
	return serveErr
}

type Summary struct {
	Frequency       []models.FrequencyEntry     `json:"frequency"`
	HourlyFrequency []models.HourFrequencyEntry `json:"hourly_frequency"`
	Nutrition       []models.NutritionEntry     `json:"nutrition"`
	TimeOfDay       []models.TimeOfDayCount     `json:"time_of_day"`
	Stats           query.Stats                 `json:"stats"`
}

// Summarize writes every aggregated collection of one load as JSON. A
// failed load is an error here, unlike serve.
func (a *App) Summarize(w io.Writer, pretty bool) error {
	session, err := a.run()
	if err != nil {
		return err
	}

	snap := session.Snapshot
	return writeJSON(w, Summary{
		Frequency:       snap.Frequency(),
		HourlyFrequency: snap.HourlyFrequency(),
		Nutrition:       snap.Nutrition(),
		TimeOfDay:       snap.TimeOfDay(),
		Stats:           snap.Stats(),
	}, pretty)
}

func (a *App) Lookup(w io.Writer, key models.Key) error {
	session, err := a.run()
	if err != nil {
		return err
	}
	view := session.Snapshot.Lookup(key)
	a.metrics.Lookup(view.HasFrequency)
	return writeJSON(w, view, true)
}

func (a *App) run() (*pipeline.Session, error) {
	if err := a.init(os.Stderr); err != nil {
		return nil, err
	}
	session, err := a.loadSession(context.Background())
	if err != nil {
		return nil, err
	}
	if session.Err != nil {
		return nil, session.Err
	}
	return session, nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
