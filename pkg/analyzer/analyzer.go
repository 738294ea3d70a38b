// Package analyzer enriches admitted candidates with the reasoning service, one call at a time,
// in batches, with cached answers reused at no cost.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"
	"golang.org/x/time/rate"

	"github.com/umputun/dropscope/pkg/cache"
	"github.com/umputun/dropscope/pkg/domain"
	"github.com/umputun/dropscope/pkg/llm"
)

//go:generate moq -out mocks/reasoner.go -pkg mocks -skip-ensure -fmt goimports . Reasoner
//go:generate moq -out mocks/response_cache.go -pkg mocks -skip-ensure -fmt goimports . ResponseCache
//go:generate moq -out mocks/result_store.go -pkg mocks -skip-ensure -fmt goimports . ResultStore

// enrichment stages reported in domain.EnrichmentError
const (
	StageCall  = "call"
	StageParse = "parse"
	StageSave  = "save"
)

// Reasoner sends one prompt to the external reasoning service
type Reasoner interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ResponseCache looks up previously paid for answers
type ResponseCache interface {
	Get(ctx context.Context, key string) (domain.CacheEntry, bool, error)
}

// ResultStore persists the analysis together with the raw answer
type ResultStore interface {
	Save(ctx context.Context, res domain.AnalysisResult, entry *domain.CacheEntry) error
}

// Config defines analyzer parameters
type Config struct {
	CallDelay        time.Duration // minimum interval between external calls
	PremiumThreshold float64       // preliminary score selecting the premium template
	Weights          domain.Weights
}

// Analyzer runs the enrichment of candidates
type Analyzer struct {
	reasoner Reasoner
	cache    ResponseCache
	store    ResultStore
	cfg      Config
	limiter  *rate.Limiter
	now      func() time.Time
}

// New makes an analyzer. The call limiter is shared by all passes of the process.
func New(cfg Config, reasoner Reasoner, cache ResponseCache, store ResultStore) *Analyzer {
	if cfg.Weights == (domain.Weights{}) {
		cfg.Weights = DefaultWeights()
	}
	limit := rate.Inf
	if cfg.CallDelay > 0 {
		limit = rate.Every(cfg.CallDelay)
	}
	return &Analyzer{
		reasoner: reasoner,
		cache:    cache,
		store:    store,
		cfg:      cfg,
		limiter:  rate.NewLimiter(limit, 1),
		now:      time.Now,
	}
}

// AnalyzeBatch enriches candidates in batches of batchSize, pausing interBatchDelay between batches.
// Failed candidates are logged, counted and skipped, they stay un-enriched for a future run.
// Cancellation is checked between candidates, results committed so far are returned with ctx.Err().
func (a *Analyzer) AnalyzeBatch(ctx context.Context, candidates []domain.Candidate, batchSize int,
	interBatchDelay time.Duration, stats *domain.RunStats) ([]domain.AnalysisResult, error) {
	if stats == nil {
		stats = &domain.RunStats{}
	}
	if batchSize <= 0 {
		batchSize = len(candidates)
	}

	results := make([]domain.AnalysisResult, 0, len(candidates))
	for start := 0; start < len(candidates); start += batchSize {
		if start > 0 && interBatchDelay > 0 {
			log.Printf("[DEBUG] batch done, pausing %v before the next one", interBatchDelay)
			if err := sleep(ctx, interBatchDelay); err != nil {
				return results, err
			}
		}

		end := min(start+batchSize, len(candidates))
		for _, c := range candidates[start:end] {
			if err := ctx.Err(); err != nil {
				return results, err
			}

			res, err := a.analyze(ctx, c, stats)
			if err != nil {
				if ctx.Err() != nil {
					return results, ctx.Err()
				}
				stats.Failed.Add(1)
				log.Printf("[WARN] %v", err)
				continue
			}
			stats.Enriched.Add(1)
			results = append(results, res)
		}
		log.Printf("[INFO] analyzed batch %d-%d of %d, enriched so far %d", start+1, end, len(candidates), len(results))
	}
	return results, nil
}

// analyze enriches one candidate from the cache or the reasoning service and saves the result
func (a *Analyzer) analyze(ctx context.Context, c domain.Candidate, stats *domain.RunStats) (domain.AnalysisResult, error) {
	templateID := a.SelectTemplate(c)
	prompt := llm.BuildPrompt(templateID, c)
	key := cache.Key(templateID, prompt, c.Name)

	parsed, entry, fromCache, err := a.lookup(ctx, key, c.Name)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	if fromCache {
		stats.CacheHits.Add(1)
	} else {
		stats.CacheMisses.Add(1)
		if err := a.limiter.Wait(ctx); err != nil {
			return domain.AnalysisResult{}, fmt.Errorf("wait for call slot: %w", err)
		}
		text, err := a.reasoner.Complete(ctx, prompt)
		if err != nil {
			return domain.AnalysisResult{}, &domain.EnrichmentError{Name: c.Name, Stage: StageCall, Err: err}
		}
		if parsed, err = llm.ParseAnalysis(text); err != nil {
			log.Printf("[DEBUG] unparsable response for %s: %.200q", c.Name, text)
			return domain.AnalysisResult{}, &domain.EnrichmentError{Name: c.Name, Stage: StageParse, Err: err}
		}
		entry = &domain.CacheEntry{Key: key, TemplateID: templateID, Name: c.Name, Response: text, CreatedAt: a.now()}
	}

	res := a.result(c.Name, parsed)
	res.TemplateID = templateID
	res.CacheKey = key
	res.FromCache = fromCache

	if err := a.store.Save(ctx, res, entry); err != nil {
		return domain.AnalysisResult{}, &domain.EnrichmentError{Name: c.Name, Stage: StageSave, Err: err}
	}
	log.Printf("[DEBUG] enriched %s, template %s, global score %.2f, %s, cached %v",
		c.Name, templateID, res.GlobalScore, res.Recommendation, fromCache)
	return res, nil
}

// lookup returns the cached analysis for key. A cached answer that no longer parses is treated as a miss.
// The returned entry is nil for hits, there is nothing new to cache.
func (a *Analyzer) lookup(ctx context.Context, key, name string) (llm.Analysis, *domain.CacheEntry, bool, error) {
	if a.cache == nil {
		return llm.Analysis{}, nil, false, nil
	}
	cached, ok, err := a.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return llm.Analysis{}, nil, false, err
		}
		log.Printf("[WARN] cache lookup for %s failed, calling service: %v", name, err)
		return llm.Analysis{}, nil, false, nil
	}
	if !ok {
		return llm.Analysis{}, nil, false, nil
	}
	parsed, err := llm.ParseAnalysis(cached.Response)
	if err != nil {
		log.Printf("[WARN] cached response for %s doesn't parse, calling service: %v", name, err)
		return llm.Analysis{}, nil, false, nil
	}
	return parsed, nil, true, nil
}

func (a *Analyzer) result(name string, parsed llm.Analysis) domain.AnalysisResult {
	return domain.AnalysisResult{
		Name:             name,
		SubScores:        parsed.SubScores,
		RecommendedPrice: parsed.RecommendedPrice,
		ResaleValue:      parsed.ResaleValue,
		ROIPercent:       parsed.ROIPercent,
		Recommendation:   parsed.Recommendation,
		Reasoning:        parsed.Reasoning,
		GlobalScore:      Composite(parsed.SubScores, a.cfg.Weights),
		Weights:          a.cfg.Weights,
		AnalyzedAt:       a.now(),
	}
}

// SelectTemplate picks the premium prompt for candidates whose preliminary score reaches the threshold
func (a *Analyzer) SelectTemplate(c domain.Candidate) string {
	if a.cfg.PremiumThreshold > 0 && PreliminaryScore(c) >= a.cfg.PremiumThreshold {
		return llm.TemplatePremium
	}
	return llm.TemplateStandard
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
