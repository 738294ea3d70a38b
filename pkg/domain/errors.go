package domain

import (
	"errors"
	"fmt"
)

// ErrNoProxy is returned when a proxy is required but none passed the liveness check
var ErrNoProxy = errors.New("no working proxy available")

// FetchError reports a fetch that failed after all retries, the source is unreachable
// or the proxy inventory is exhausted. It wraps the last underlying error.
type FetchError struct {
	URL        string
	Attempts   int
	StatusCode int // last http status, 0 for transport failures
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s failed after %d attempt(s), status %d: %v", e.URL, e.Attempts, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError describes a single malformed row or fragment skipped by a parser
type ParseError struct {
	Source string
	Row    int
	Reason string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("source %s, row %d: %s", e.Source, e.Row, e.Reason)
}

// EnrichmentError reports a failed external call or an unparsable response.
// The candidate stays un-enriched and is eligible on a future run.
type EnrichmentError struct {
	Name  string
	Stage string // "call" or "parse"
	Err   error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrich %s (%s): %v", e.Name, e.Stage, e.Err)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

// ConfigError is a fatal configuration problem detected before any external call
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error: %s %s", e.Field, e.Reason)
}

// IsConfigError reports whether err carries a ConfigError
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
