// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mcp-meal-map/internal/loader"
	"mcp-meal-map/internal/metrics"
	"mcp-meal-map/internal/models"
	"mcp-meal-map/internal/query"
)

// Sources names the two datasets of a session. An empty Nutrition reuses
// the frequency records.
type Sources struct {
	Frequency string
	Nutrition string
}

type RecordLoader interface {
	Load(ctx context.Context, source string) ([]models.RawRecord, error)
}

// Session is the result of one load. A failed load leaves Err set and an
// empty Snapshot, which presentation renders as the empty state.
type Session struct {
	ID        string          `json:"id"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`
	Sources   Sources         `json:"sources"`
	Snapshot  *query.Snapshot `json:"-"`
	Err       error           `json:"-"`
}

func (s *Session) Healthy() bool {
	return s.Err == nil
}

type Pipeline struct {
	loader  RecordLoader
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func New(l RecordLoader, m *metrics.Metrics, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		loader:  l,
		metrics: m,
		logger:  logger.With(slog.String("component", "pipeline")),
	}
}

// Run loads both datasets and aggregates them. Any load or parse failure
// aborts the whole session; nothing is aggregated from a partial load.
func (p *Pipeline) Run(ctx context.Context, src Sources) *Session {
	session := &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Sources:   src,
		Snapshot:  query.Empty(),
	}
	logger := p.logger.With(slog.String("session_id", session.ID))

	snapshot, err := p.build(ctx, src)
	session.Duration = time.Since(session.StartedAt)
	p.metrics.ObserveLoad(session.Duration, err == nil)

	if err != nil {
		session.Err = err
		logger.Error("session load failed", slog.String("error", err.Error()))
		return session
	}

	session.Snapshot = snapshot
	stats := snapshot.Stats()
	logger.Info("session ready",
		slog.Int("records", stats.Records),
		slog.Int("slots", stats.Slots),
		slog.Int("nutrition_slots", stats.NutritionSlots),
		slog.Duration("elapsed", session.Duration))
	return session
}

func (p *Pipeline) build(ctx context.Context, src Sources) (*query.Snapshot, error) {
	freq, err := p.load(ctx, "frequency", src.Frequency)
	if err != nil {
		return nil, err
	}

	nutr := freq
	if src.Nutrition != "" && src.Nutrition != src.Frequency {
		if nutr, err = p.load(ctx, "nutrition", src.Nutrition); err != nil {
			return nil, err
		}
	}

	return query.Build(freq, nutr), nil
}

func (p *Pipeline) load(ctx context.Context, dataset, source string) ([]models.RawRecord, error) {
	records, err := p.loader.Load(ctx, source)
	if err != nil {
		p.metrics.LoadFailed(dataset, reason(err))
		return nil, fmt.Errorf("%s dataset: %w", dataset, err)
	}
	p.metrics.SetRecords(dataset, len(records))
	return records, nil
}

func reason(err error) string {
	var pe *loader.ParseError
	if errors.As(err, &pe) {
		return "parse"
	}
	return "load"
}
