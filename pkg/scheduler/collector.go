package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/dropscope/pkg/config"
	"github.com/umputun/dropscope/pkg/domain"
	"github.com/umputun/dropscope/pkg/fetcher"
	"github.com/umputun/dropscope/pkg/filter"
	"github.com/umputun/dropscope/pkg/source"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/candidate_store.go -pkg mocks -skip-ensure -fmt goimports . CandidateStore

const pagePlaceholder = "{page}"

// Fetcher gets one page of a source
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts fetcher.Options) (*fetcher.Response, error)
}

// CandidateStore is the durable record of every candidate ever seen
type CandidateStore interface {
	IsFresh(ctx context.Context, name string, window time.Duration) (bool, error)
	Upsert(ctx context.Context, c domain.Candidate) (domain.UpsertOutcome, error)
}

// Gate decides whether a candidate is worth keeping
type Gate interface {
	Evaluate(c domain.Candidate) filter.Decision
}

// Normalizer turns a raw record into a canonical candidate
type Normalizer interface {
	Normalize(raw domain.RawCandidate) (domain.Candidate, error)
}

// Source is a configured source with its parser resolved
type Source struct {
	Config config.SourceConfig
	Parser source.Parser
}

// CollectorConfig holds collection pass settings
type CollectorConfig struct {
	FreshnessWindow time.Duration
	MaxPerSource    int           // default cap of candidates taken from one source, 0 means unlimited
	PageDelay       time.Duration // default delay between pages of one source
	ParallelSources int
	MaxRetries      int
	BaseBackoff     time.Duration
}

// Collector runs one collection pass over all sources. Sources are collected in parallel,
// pages of one source are fetched one after another with a delay.
type Collector struct {
	sources    []Source
	fetcher    Fetcher
	store      CandidateStore
	gate       Gate
	normalizer Normalizer
	cfg        CollectorConfig
}

// NewCollector makes a collector
func NewCollector(cfg CollectorConfig, sources []Source, f Fetcher, store CandidateStore, gate Gate, n Normalizer) *Collector {
	if cfg.ParallelSources <= 0 {
		cfg.ParallelSources = 1
	}
	return &Collector{sources: sources, fetcher: f, store: store, gate: gate, normalizer: n, cfg: cfg}
}

// BuildSources resolves parsers for enabled sources. An unknown kind or bad mapping is a configuration error.
func BuildSources(cfgs []config.SourceConfig) ([]Source, error) {
	res := make([]Source, 0, len(cfgs))
	for _, sc := range cfgs {
		if !sc.IsEnabled() {
			continue
		}
		p, err := source.New(sc)
		if err != nil {
			return nil, err
		}
		res = append(res, Source{Config: sc, Parser: p})
	}
	return res, nil
}

// Collect runs all sources. A failing source is logged and counted, it never stops the others.
// Returns ctx.Err() if the pass was interrupted.
func (c *Collector) Collect(ctx context.Context, stats *domain.RunStats) error {
	lgr.Printf("[INFO] collecting from %d sources", len(c.sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.ParallelSources)
	for _, src := range c.sources {
		g.Go(func() error {
			taken, err := c.collectSource(gctx, src, stats)
			switch {
			case err == nil:
				lgr.Printf("[INFO] source %s done, %d candidates taken", src.Config.Name, taken)
			case gctx.Err() != nil:
				lgr.Printf("[DEBUG] source %s interrupted after %d candidates", src.Config.Name, taken)
			default:
				lgr.Printf("[WARN] source %s abandoned after %d candidates: %v", src.Config.Name, taken, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	lgr.Printf("[INFO] collection completed")
	return nil
}

// collectSource fetches pages of one source until the pages run out or the cap is reached
func (c *Collector) collectSource(ctx context.Context, src Source, stats *domain.RunStats) (int, error) {
	limit := c.cfg.MaxPerSource
	if src.Config.MaxCandidates > 0 {
		limit = src.Config.MaxCandidates
	}
	delay := c.cfg.PageDelay
	if src.Config.Delay > 0 {
		delay = src.Config.Delay
	}

	taken := 0
	for i, url := range pageURLs(src.Config) {
		if limit > 0 && taken >= limit {
			lgr.Printf("[DEBUG] source %s reached cap %d", src.Config.Name, limit)
			return taken, nil
		}
		if i > 0 {
			if err := sleep(ctx, delay); err != nil {
				return taken, err
			}
		}
		if err := ctx.Err(); err != nil {
			return taken, err
		}

		resp, err := c.fetcher.Fetch(ctx, url, fetcher.Options{
			Source:       src.Config.Name,
			MaxRetries:   c.cfg.MaxRetries,
			BaseBackoff:  c.cfg.BaseBackoff,
			UseProxy:     src.Config.UseProxy,
			RequireProxy: src.Config.RequireProxy,
		})
		if err != nil {
			var fe *domain.FetchError
			if errors.As(err, &fe) {
				stats.FetchFailed.Add(1)
			}
			return taken, fmt.Errorf("fetch page: %w", err)
		}
		stats.Fetched.Add(1)

		res := src.Parser.Parse(resp.Body)
		stats.Parsed.Add(int64(len(res.Candidates)))
		stats.ParseSkipped.Add(int64(len(res.Skipped)))
		for _, pe := range res.Skipped {
			lgr.Printf("[DEBUG] skipped %v", pe)
		}
		lgr.Printf("[DEBUG] %s: %d records, %d skipped, %d bytes via %s", url, len(res.Candidates), len(res.Skipped),
			len(resp.Body), proxyName(resp.Proxy))

		for _, raw := range res.Candidates {
			if limit > 0 && taken >= limit {
				break
			}
			if err := ctx.Err(); err != nil {
				return taken, err
			}
			if raw.Source == "" {
				raw.Source = src.Config.Name
			}
			ok, err := c.process(ctx, raw, stats)
			if err != nil {
				return taken, err
			}
			if ok {
				taken++
			}
		}
	}
	return taken, nil
}

// process normalizes, gates and stores one record. Returns false for records that weren't taken:
// invalid names, fresh names and rejected names. Only store failures are returned as errors.
func (c *Collector) process(ctx context.Context, raw domain.RawCandidate, stats *domain.RunStats) (bool, error) {
	cand, err := c.normalizer.Normalize(raw)
	if err != nil {
		stats.ParseSkipped.Add(1)
		lgr.Printf("[DEBUG] source %s, skip %q: %v", raw.Source, raw.Name, err)
		return false, nil
	}

	fresh, err := c.store.IsFresh(ctx, cand.Name, c.cfg.FreshnessWindow)
	if err != nil {
		return false, fmt.Errorf("check freshness of %s: %w", cand.Name, err)
	}
	if fresh {
		stats.Fresh.Add(1)
		return false, nil
	}

	dec := c.gate.Evaluate(cand)
	if !dec.Admitted {
		stats.Rejected.Add(1)
		lgr.Printf("[DEBUG] rejected %s by %s: %s", cand.Name, dec.Rule, dec.Reason)
		return false, nil
	}
	stats.Admitted.Add(1)
	cand.Admitted = true

	outcome, err := c.store.Upsert(ctx, cand)
	if err != nil {
		return false, fmt.Errorf("store %s: %w", cand.Name, err)
	}
	if outcome == domain.UpsertCreated {
		stats.Created.Add(1)
	} else {
		stats.Updated.Add(1)
	}
	return true, nil
}

// pageURLs expands the page placeholder. A url without the placeholder is fetched once.
func pageURLs(sc config.SourceConfig) []string {
	if !strings.Contains(sc.URL, pagePlaceholder) {
		return []string{sc.URL}
	}
	pages := max(sc.Pages, 1)
	res := make([]string, 0, pages)
	for p := 1; p <= pages; p++ {
		res = append(res, strings.ReplaceAll(sc.URL, pagePlaceholder, strconv.Itoa(p)))
	}
	return res
}

func proxyName(p string) string {
	if p == "" {
		return "direct"
	}
	return p
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
