// internal/loader/errors.go
package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is wrapped in a LoadError when the load deadline expires.
	ErrTimeout = errors.New("load timed out")
	// ErrUnsupportedSource is returned for locations with an unknown scheme.
	ErrUnsupportedSource = errors.New("unsupported source")
	// ErrMissingColumn is wrapped in a ParseError when a required header is absent.
	ErrMissingColumn = errors.New("missing required column")
)

// LoadError reports a source that could not be read: unreachable, timed
// out, or answered with a non-success status.
type LoadError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *LoadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("load %s: HTTP %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ParseError reports a structurally malformed row. Line is the 1-based row
// number within the source table; the header is line 1.
type ParseError struct {
	Source string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse %s", e.Source)
	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" column %s", e.Column)
	}
	msg += ": " + e.Err.Error()
	if e.Value != "" {
		msg += fmt.Sprintf(" (value %q)", e.Value)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
