// internal/loader/source.go
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"mcp-meal-map/internal/storage"
)

type sourceKind int

const (
	kindFile sourceKind = iota
	kindHTTP
	kindSQLite
)

type location struct {
	raw   string
	kind  sourceKind
	path  string // file path, URL or database path
	table string
}

func parseLocation(raw string) (location, error) {
	loc := location{raw: raw}
	s := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		loc.kind = kindHTTP
		loc.path = s
	case strings.HasPrefix(s, "sqlite://"):
		loc.kind = kindSQLite
		p, q, _ := strings.Cut(strings.TrimPrefix(s, "sqlite://"), "?")
		values, err := url.ParseQuery(q)
		if err != nil {
			return loc, fmt.Errorf("invalid sqlite query: %w", err)
		}
		loc.path = p
		loc.table = values.Get("table")
	case strings.HasPrefix(s, "file://"):
		loc.kind = kindFile
		loc.path = strings.TrimPrefix(s, "file://")
	case strings.Contains(s, "://"):
		return loc, fmt.Errorf("%w: %s", ErrUnsupportedSource, s)
	default:
		loc.kind = kindFile
		loc.path = s
	}

	if loc.path == "" {
		return loc, fmt.Errorf("%w: empty location", ErrUnsupportedSource)
	}
	return loc, nil
}

// format returns "xlsx" or "csv" from the location's extension.
func (loc location) format() string {
	p := loc.path
	if loc.kind == kindHTTP {
		if u, err := url.Parse(p); err == nil {
			p = u.Path
		}
	}
	if strings.EqualFold(path.Ext(p), ".xlsx") {
		return formatXLSX
	}
	return formatCSV
}

// fetch returns the source body for file and HTTP locations.
func (l *Loader) fetch(ctx context.Context, loc location) ([]byte, error) {
	switch loc.kind {
	case kindHTTP:
		return l.fetchHTTP(ctx, loc)
	default:
		f, err := os.Open(loc.path)
		if err != nil {
			return nil, &LoadError{Source: loc.raw, Err: err}
		}
		defer f.Close()
		return l.readLimited(loc, f)
	}
}

func (l *Loader) fetchHTTP(ctx context.Context, loc location) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.path, nil)
	if err != nil {
		return nil, &LoadError{Source: loc.raw, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", l.opts.UserAgent)
	req.Header.Set("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, */*")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, l.wrapContextErr(ctx, loc, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &LoadError{
			Source:     loc.raw,
			StatusCode: resp.StatusCode,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	body, err := l.readLimited(loc, resp.Body)
	if err != nil {
		return nil, l.wrapContextErr(ctx, loc, err)
	}
	return body, nil
}

func (l *Loader) readLimited(loc location, r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, l.opts.MaxBytes+1))
	if err != nil {
		return nil, &LoadError{Source: loc.raw, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > l.opts.MaxBytes {
		return nil, &LoadError{Source: loc.raw, Err: fmt.Errorf("body exceeds %d bytes", l.opts.MaxBytes)}
	}
	return body, nil
}

// readSQLite returns the named table of a SQLite meal log.
func (l *Loader) readSQLite(ctx context.Context, loc location) ([][]string, error) {
	s, err := storage.NewSQLiteStorage(loc.path)
	if err != nil {
		return nil, &LoadError{Source: loc.raw, Err: err}
	}
	defer s.Close()

	rows, err := s.ReadTable(ctx, loc.table)
	if err != nil {
		return nil, l.wrapContextErr(ctx, loc, err)
	}
	return rows, nil
}

func (l *Loader) wrapContextErr(ctx context.Context, loc location, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		err = le.Err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &LoadError{Source: loc.raw, Err: fmt.Errorf("%w after %s", ErrTimeout, l.opts.Timeout)}
	}
	return &LoadError{Source: loc.raw, Err: err}
}
