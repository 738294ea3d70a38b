package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/dropscope/pkg/domain"
	"github.com/umputun/dropscope/pkg/ranker"
)

//go:generate moq -out mocks/analysis_queue.go -pkg mocks -skip-ensure -fmt goimports . AnalysisQueue
//go:generate moq -out mocks/batch_analyzer.go -pkg mocks -skip-ensure -fmt goimports . BatchAnalyzer
//go:generate moq -out mocks/cache_purger.go -pkg mocks -skip-ensure -fmt goimports . CachePurger
//go:generate moq -out mocks/enriched_source.go -pkg mocks -skip-ensure -fmt goimports . EnrichedSource
//go:generate moq -out mocks/opportunity_store.go -pkg mocks -skip-ensure -fmt goimports . OpportunityStore
//go:generate moq -out mocks/run_recorder.go -pkg mocks -skip-ensure -fmt goimports . RunRecorder

// Mode selects the passes of a run
type Mode string

// run modes
const (
	ModeCollect Mode = "collect"
	ModeAnalyze Mode = "analyze"
	ModeAll     Mode = "all"
	ModeReport  Mode = "report"
)

// ParseMode checks the mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeCollect, ModeAnalyze, ModeAll, ModeReport:
		return m, nil
	}
	return "", &domain.ConfigError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", s)}
}

func (m Mode) collects() bool { return m == ModeCollect || m == ModeAll }
func (m Mode) analyzes() bool { return m == ModeAnalyze || m == ModeAll }
func (m Mode) reports() bool  { return m == ModeReport || m == ModeAll }

// AnalysisQueue hands out admitted, not yet analyzed candidates
type AnalysisQueue interface {
	ListUnenriched(ctx context.Context, limit int, window time.Duration) ([]domain.Candidate, error)
}

// BatchAnalyzer enriches candidates with the reasoning service
type BatchAnalyzer interface {
	AnalyzeBatch(ctx context.Context, candidates []domain.Candidate, batchSize int, interBatchDelay time.Duration,
		stats *domain.RunStats) ([]domain.AnalysisResult, error)
}

// CachePurger drops expired cache entries
type CachePurger interface {
	Purge(ctx context.Context) (int64, error)
}

// EnrichedSource lists analyzed candidates with their results
type EnrichedSource interface {
	ListEnriched(ctx context.Context) ([]domain.EnrichedCandidate, error)
}

// OpportunityStore keeps the latest ranked list
type OpportunityStore interface {
	Replace(ctx context.Context, opps []domain.RankedOpportunity) error
}

// RunRecorder persists run summaries
type RunRecorder interface {
	StartRun(ctx context.Context, mode string) (string, error)
	FinishRun(ctx context.Context, runID string, status domain.RunStatus, stats map[string]int64, runErr error) error
}

// Collecting runs one collection pass
type Collecting interface {
	Collect(ctx context.Context, stats *domain.RunStats) error
}

// PipelineConfig holds analysis and report pass settings
type PipelineConfig struct {
	AnalyzeLimit int           // candidates taken per analysis pass
	BatchSize    int           // candidates per batch
	BatchDelay   time.Duration // pause between batches
	ListWindow   time.Duration // a listed but unfinished candidate is handed out again after it
	ExportPath   string        // csv export, empty disables the file
}

// Params holds pipeline dependencies. Collector and Analyzer may be nil if the modes needing them are never run.
type Params struct {
	Collector     Collecting
	Queue         AnalysisQueue
	Analyzer      BatchAnalyzer
	Cache         CachePurger
	Enriched      EnrichedSource
	Ranker        *ranker.Ranker
	Opportunities OpportunityStore
	Runs          RunRecorder
	Config        PipelineConfig
}

// Pipeline runs collection, analysis and report passes and records each run
type Pipeline struct {
	Params
}

// NewPipeline makes a pipeline
func NewPipeline(p Params) *Pipeline {
	if p.Ranker == nil {
		p.Ranker = ranker.New(ranker.DefaultConfig())
	}
	if p.Config.BatchSize <= 0 {
		p.Config.BatchSize = 10
	}
	return &Pipeline{Params: p}
}

// Run executes passes selected by mode and records the run. Stats are returned even on failure.
func (p *Pipeline) Run(ctx context.Context, mode Mode) (*domain.RunStats, error) {
	stats := &domain.RunStats{}
	if err := p.check(mode); err != nil {
		return stats, err
	}

	runID := ""
	if p.Runs != nil {
		id, err := p.Runs.StartRun(ctx, string(mode))
		if err != nil {
			lgr.Printf("[WARN] failed to record run start: %v", err)
		}
		runID = id
	}

	st := time.Now()
	err := p.execute(ctx, mode, stats)
	status := runStatus(err)
	lgr.Printf("[INFO] run %s finished (%s) in %v: %s", mode, status, time.Since(st).Truncate(time.Millisecond), stats)

	if runID != "" {
		// the run context may be canceled already, the summary is still written
		finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if ferr := p.Runs.FinishRun(finishCtx, runID, status, stats.Snapshot(), err); ferr != nil {
			lgr.Printf("[WARN] failed to record run %s: %v", runID, ferr)
		}
		cancel()
	}
	return stats, err
}

func (p *Pipeline) check(mode Mode) error {
	if mode.collects() && p.Collector == nil {
		return &domain.ConfigError{Field: "mode", Reason: "collect requires configured sources"}
	}
	if mode.analyzes() && p.Analyzer == nil {
		return &domain.ConfigError{Field: "llm.api_key", Reason: "analysis requires the reasoning service"}
	}
	return nil
}

func (p *Pipeline) execute(ctx context.Context, mode Mode, stats *domain.RunStats) error {
	if mode.collects() {
		if err := p.Collector.Collect(ctx, stats); err != nil {
			return fmt.Errorf("collect: %w", err)
		}
	}
	if mode.analyzes() {
		if err := p.Analyze(ctx, stats); err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
	}
	if mode.reports() {
		if _, err := p.Report(ctx, stats); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	return nil
}

// Analyze purges expired cache entries and enriches the next slice of pending candidates
func (p *Pipeline) Analyze(ctx context.Context, stats *domain.RunStats) error {
	if p.Cache != nil {
		if _, err := p.Cache.Purge(ctx); err != nil {
			lgr.Printf("[WARN] failed to purge cache: %v", err)
		}
	}

	pending, err := p.Queue.ListUnenriched(ctx, p.Config.AnalyzeLimit, p.Config.ListWindow)
	if err != nil {
		return fmt.Errorf("list pending candidates: %w", err)
	}
	if len(pending) == 0 {
		lgr.Printf("[INFO] no candidates pending analysis")
		return nil
	}
	lgr.Printf("[INFO] analyzing %d candidates in batches of %d", len(pending), p.Config.BatchSize)

	results, err := p.Analyzer.AnalyzeBatch(ctx, pending, p.Config.BatchSize, p.Config.BatchDelay, stats)
	if err != nil {
		return fmt.Errorf("analyzed %d of %d: %w", len(results), len(pending), err)
	}
	return nil
}

// Report ranks all enriched candidates, replaces the stored list and writes the csv export
func (p *Pipeline) Report(ctx context.Context, stats *domain.RunStats) ([]domain.RankedOpportunity, error) {
	enriched, err := p.Enriched.ListEnriched(ctx)
	if err != nil {
		return nil, fmt.Errorf("list enriched: %w", err)
	}

	opps := p.Ranker.Rank(enriched)
	stats.Ranked.Add(int64(len(opps)))

	if err := p.Opportunities.Replace(ctx, opps); err != nil {
		return nil, fmt.Errorf("store opportunities: %w", err)
	}

	if p.Config.ExportPath != "" {
		if err := writeExport(p.Config.ExportPath, opps); err != nil {
			return nil, err
		}
		lgr.Printf("[INFO] exported %d opportunities to %s", len(opps), p.Config.ExportPath)
	}
	return opps, nil
}

// writeExport writes csv into a temp file next to path and renames it, readers never see a partial file
func writeExport(path string, opps []domain.RankedOpportunity) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if err := ranker.WriteCSV(tmp, opps); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename export: %w", err)
	}
	return nil
}

func runStatus(err error) domain.RunStatus {
	switch {
	case err == nil:
		return domain.RunSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.RunCanceled
	default:
		return domain.RunFailed
	}
}
