// internal/loader/loader.go
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"mcp-meal-map/internal/models"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultMaxBytes  = 10 << 20
	DefaultUserAgent = "meal-map/1.0"
)

type Options struct {
	// Timeout bounds a single Load, including the HTTP round trip.
	Timeout time.Duration
	// Strict rejects rows with unparseable or out-of-range values instead
	// of propagating NaN.
	Strict bool
	// MaxBytes caps the size of a file or HTTP body.
	MaxBytes int64
	// ClassMap assigns a class to records whose class cell is empty.
	ClassMap  map[string]models.FoodClass
	UserAgent string
	// Format forces "csv" or "xlsx"; empty means detect from the extension.
	Format string
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	return o
}

type Loader struct {
	client *http.Client
	opts   Options
	logger *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		client: &http.Client{},
		opts:   opts.withDefaults(),
		logger: logger.With(slog.String("component", "loader")),
	}
}

// WithClient replaces the HTTP client used for URL sources.
func (l *Loader) WithClient(c *http.Client) *Loader {
	l.client = c
	return l
}

// Load reads every record of source in source order. It fails with a
// *LoadError when the source cannot be read and with *ParseError values
// (possibly several, joined in a multierror) when rows are malformed.
func (l *Loader) Load(ctx context.Context, source string) ([]models.RawRecord, error) {
	start := time.Now()

	loc, err := parseLocation(source)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, l.opts.Timeout)
	defer cancel()

	rows, format, err := l.readRows(ctx, loc)
	if err != nil {
		l.logger.Error("load failed", slog.String("source", source), slog.String("error", err.Error()))
		return nil, err
	}

	p := &parser{source: source, strict: l.opts.Strict, classMap: l.opts.ClassMap}
	records, err := p.parseRows(rows)
	if err != nil {
		l.logger.Error("parse failed", slog.String("source", source), slog.String("error", err.Error()))
		return nil, err
	}

	l.logger.Info("loaded records",
		slog.String("source", source),
		slog.String("format", format),
		slog.Int("records", len(records)),
		slog.Duration("elapsed", time.Since(start)))

	return records, nil
}

func (l *Loader) readRows(ctx context.Context, loc location) ([][]string, string, error) {
	if loc.kind == kindSQLite {
		rows, err := l.readSQLite(ctx, loc)
		return rows, "sqlite", err
	}

	body, err := l.fetch(ctx, loc)
	if err != nil {
		return nil, "", err
	}

	format := l.opts.Format
	if format == "" {
		format = loc.format()
	}

	var rows [][]string
	switch format {
	case formatCSV:
		rows, err = decodeCSV(loc.raw, body)
	case formatXLSX:
		rows, err = decodeXLSX(loc.raw, body)
	default:
		err = &LoadError{Source: loc.raw, Err: fmt.Errorf("%w: format %q", ErrUnsupportedSource, format)}
	}
	return rows, format, err
}
