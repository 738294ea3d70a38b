package domain

import (
	"fmt"
	"sync/atomic"
	"time"
)

// RunStats collects per-stage counters of a run, safe for concurrent use
type RunStats struct {
	Fetched      atomic.Int64
	FetchFailed  atomic.Int64
	Parsed       atomic.Int64
	ParseSkipped atomic.Int64
	Fresh        atomic.Int64
	Admitted     atomic.Int64
	Rejected     atomic.Int64
	Created      atomic.Int64
	Updated      atomic.Int64
	CacheHits    atomic.Int64
	CacheMisses  atomic.Int64
	Enriched     atomic.Int64
	Failed       atomic.Int64
	Ranked       atomic.Int64
}

// Snapshot returns counters as a plain map, keys are stable and used in persisted run summaries
func (s *RunStats) Snapshot() map[string]int64 {
	return map[string]int64{
		"fetched":       s.Fetched.Load(),
		"fetch_failed":  s.FetchFailed.Load(),
		"parsed":        s.Parsed.Load(),
		"parse_skipped": s.ParseSkipped.Load(),
		"fresh":         s.Fresh.Load(),
		"admitted":      s.Admitted.Load(),
		"rejected":      s.Rejected.Load(),
		"created":       s.Created.Load(),
		"updated":       s.Updated.Load(),
		"cache_hits":    s.CacheHits.Load(),
		"cache_misses":  s.CacheMisses.Load(),
		"enriched":      s.Enriched.Load(),
		"failed":        s.Failed.Load(),
		"ranked":        s.Ranked.Load(),
	}
}

// String formats the summary line logged at the end of a run
func (s *RunStats) String() string {
	return fmt.Sprintf("fetched=%d fetch_failed=%d parsed=%d parse_skipped=%d fresh=%d admitted=%d rejected=%d "+
		"created=%d updated=%d cache_hit=%d cache_miss=%d enriched=%d failed=%d ranked=%d",
		s.Fetched.Load(), s.FetchFailed.Load(), s.Parsed.Load(), s.ParseSkipped.Load(), s.Fresh.Load(),
		s.Admitted.Load(), s.Rejected.Load(), s.Created.Load(), s.Updated.Load(), s.CacheHits.Load(),
		s.CacheMisses.Load(), s.Enriched.Load(), s.Failed.Load(), s.Ranked.Load())
}

// RunStatus is the lifecycle state of a run
type RunStatus string

// run statuses
const (
	RunRunning  RunStatus = "running"
	RunSuccess  RunStatus = "success"
	RunFailed   RunStatus = "failed"
	RunCanceled RunStatus = "canceled"
)

// Run is a persisted summary of one pipeline execution
type Run struct {
	ID         string           `json:"id"`
	Mode       string           `json:"mode"`
	Status     RunStatus        `json:"status"`
	Error      string           `json:"error,omitempty"`
	Stats      map[string]int64 `json:"stats"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
}
