package analyzer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/dropscope/pkg/analyzer/mocks"
	"github.com/umputun/dropscope/pkg/domain"
	"github.com/umputun/dropscope/pkg/llm"
)

const proseAnswer = `Here is the analysis: {"seo_score":7,"commercial_score":8,"brandability_score":6,` +
	`"competition_score":4,"risk_score":2,"recommended_price":100,"resale_value":800,"roi_percent":700,` +
	`"recommendation":"BUY","reasoning":"good"} thanks`

// memCache is a ResponseCache and ResultStore pair over a map, like the sqlite store does in one transaction
type memCache struct {
	mu      sync.Mutex
	entries map[string]domain.CacheEntry
	saved   []domain.AnalysisResult
}

func newMemCache() *memCache { return &memCache{entries: map[string]domain.CacheEntry{}} }

func (m *memCache) Get(_ context.Context, key string) (domain.CacheEntry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	return e, ok, nil
}

func (m *memCache) Save(_ context.Context, res domain.AnalysisResult, entry *domain.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry != nil {
		m.entries[entry.Key] = *entry
	}
	m.saved = append(m.saved, res)
	return nil
}

func candidates(names ...string) []domain.Candidate {
	res := make([]domain.Candidate, 0, len(names))
	for _, n := range names {
		res = append(res, domain.Candidate{Name: n, Label: n[:len(n)-4], Suffix: "com", Length: len(n) - 4, Admitted: true})
	}
	return res
}

func TestAnalyzer_AnalyzeBatch(t *testing.T) {
	reasoner := &mocks.ReasonerMock{CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
		return proseAnswer, nil
	}}
	store := &mocks.ResultStoreMock{SaveFunc: func(ctx context.Context, res domain.AnalysisResult, entry *domain.CacheEntry) error {
		return nil
	}}
	cache := &mocks.ResponseCacheMock{GetFunc: func(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
		return domain.CacheEntry{}, false, nil
	}}

	a := New(Config{}, reasoner, cache, store)
	stats := &domain.RunStats{}
	results, err := a.AnalyzeBatch(context.Background(), candidates("shopfast.com", "cloudly.com"), 10, 0, stats)
	require.NoError(t, err)
	require.Len(t, results, 2)

	res := results[0]
	assert.Equal(t, "shopfast.com", res.Name)
	assert.InDelta(t, 7.1, res.GlobalScore, 0.0001)
	assert.Equal(t, DefaultWeights(), res.Weights)
	assert.Equal(t, domain.RecommendBuy, res.Recommendation)
	assert.InDelta(t, 700.0, res.ROIPercent, 0.001)
	assert.Equal(t, llm.TemplateStandard, res.TemplateID)
	assert.Len(t, res.CacheKey, 64)
	assert.False(t, res.FromCache)

	require.Len(t, store.SaveCalls(), 2)
	entry := store.SaveCalls()[0].Entry
	require.NotNil(t, entry, "raw answer saved with the result")
	assert.Equal(t, res.CacheKey, entry.Key)
	assert.Equal(t, proseAnswer, entry.Response)
	assert.Equal(t, "shopfast.com", entry.Name)

	assert.Len(t, reasoner.CompleteCalls(), 2)
	assert.Len(t, cache.GetCalls(), 2)
	assert.Equal(t, int64(2), stats.Enriched.Load())
	assert.Equal(t, int64(2), stats.CacheMisses.Load())
	assert.Equal(t, int64(0), stats.CacheHits.Load())
}

func TestAnalyzer_CacheRoundTrip(t *testing.T) {
	calls := 0
	reasoner := &mocks.ReasonerMock{CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
		calls++
		return proseAnswer, nil
	}}
	mem := newMemCache()
	a := New(Config{}, reasoner, mem, mem)

	first, err := a.AnalyzeBatch(context.Background(), candidates("roundtrip.com"), 1, 0, nil)
	require.NoError(t, err)
	require.Len(t, first, 1)

	stats := &domain.RunStats{}
	second, err := a.AnalyzeBatch(context.Background(), candidates("roundtrip.com"), 1, 0, stats)
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Equal(t, 1, calls, "second pass served from cache")
	assert.True(t, second[0].FromCache)
	assert.Equal(t, first[0].CacheKey, second[0].CacheKey)
	assert.InDelta(t, first[0].GlobalScore, second[0].GlobalScore, 0)
	assert.InDelta(t, Composite(second[0].SubScores, second[0].Weights), second[0].GlobalScore, 0)
	assert.Equal(t, first[0].SubScores, second[0].SubScores)
	assert.Equal(t, int64(1), stats.CacheHits.Load())
	assert.Len(t, mem.entries, 1)
	assert.Len(t, mem.saved, 2)
}

func TestAnalyzer_Failures(t *testing.T) {
	reasoner := &mocks.ReasonerMock{CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "broken.com"):
			return "sorry, I can't help with that", nil
		case strings.Contains(prompt, "down.com"):
			return "", errors.New("503 service unavailable")
		}
		return proseAnswer, nil
	}}
	store := &mocks.ResultStoreMock{SaveFunc: func(ctx context.Context, res domain.AnalysisResult, entry *domain.CacheEntry) error {
		if res.Name == "locked.com" {
			return errors.New("database is locked")
		}
		return nil
	}}
	cache := &mocks.ResponseCacheMock{GetFunc: func(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
		return domain.CacheEntry{}, false, errors.New("cache unavailable")
	}}

	a := New(Config{}, reasoner, cache, store)
	stats := &domain.RunStats{}
	results, err := a.AnalyzeBatch(context.Background(), candidates("broken.com", "down.com", "locked.com", "good.com"), 2, 0, stats)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "good.com", results[0].Name)
	assert.Equal(t, int64(3), stats.Failed.Load())
	assert.Equal(t, int64(1), stats.Enriched.Load())

	// parse and call failures never reach the store
	saved := map[string]bool{}
	for _, c := range store.SaveCalls() {
		saved[c.Res.Name] = true
	}
	assert.Equal(t, map[string]bool{"locked.com": true, "good.com": true}, saved)
}

func TestAnalyzer_BadCachedAnswerIsAMiss(t *testing.T) {
	reasoner := &mocks.ReasonerMock{CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
		return proseAnswer, nil
	}}
	cache := &mocks.ResponseCacheMock{GetFunc: func(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
		return domain.CacheEntry{Key: key, Response: "garbage"}, true, nil
	}}
	store := &mocks.ResultStoreMock{SaveFunc: func(ctx context.Context, res domain.AnalysisResult, entry *domain.CacheEntry) error {
		return nil
	}}
	a := New(Config{}, reasoner, cache, store)
	results, err := a.AnalyzeBatch(context.Background(), candidates("retry.com"), 1, 0, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].FromCache)
	assert.Len(t, reasoner.CompleteCalls(), 1)
	assert.NotNil(t, store.SaveCalls()[0].Entry)
}

func TestAnalyzer_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reasoner := &mocks.ReasonerMock{CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
		cancel() // cancel after the first call, the pass stops before the next candidate
		return proseAnswer, nil
	}}
	store := &mocks.ResultStoreMock{SaveFunc: func(ctx context.Context, res domain.AnalysisResult, entry *domain.CacheEntry) error {
		return nil
	}}
	a := New(Config{}, reasoner, nil, store)

	results, err := a.AnalyzeBatch(ctx, candidates("one.com", "two.com", "three.com"), 10, 0, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, results, 1)
	assert.Len(t, reasoner.CompleteCalls(), 1)
}

func TestAnalyzer_Delays(t *testing.T) {
	reasoner := &mocks.ReasonerMock{CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
		return proseAnswer, nil
	}}
	store := &mocks.ResultStoreMock{SaveFunc: func(ctx context.Context, res domain.AnalysisResult, entry *domain.CacheEntry) error {
		return nil
	}}

	t.Run("minimum delay between calls", func(t *testing.T) {
		a := New(Config{CallDelay: 40 * time.Millisecond}, reasoner, nil, store)
		st := time.Now()
		results, err := a.AnalyzeBatch(context.Background(), candidates("aaaa.com", "bbbb.com", "cccc.com"), 10, 0, nil)
		require.NoError(t, err)
		assert.Len(t, results, 3)
		assert.GreaterOrEqual(t, time.Since(st), 75*time.Millisecond)
	})

	t.Run("pause between batches", func(t *testing.T) {
		a := New(Config{}, reasoner, nil, store)
		st := time.Now()
		results, err := a.AnalyzeBatch(context.Background(), candidates("aaaa.com", "bbbb.com", "cccc.com"), 2, 60*time.Millisecond, nil)
		require.NoError(t, err)
		assert.Len(t, results, 3)
		assert.GreaterOrEqual(t, time.Since(st), 60*time.Millisecond)
	})

	t.Run("pause interrupted by cancel", func(t *testing.T) {
		a := New(Config{}, reasoner, nil, store)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		st := time.Now()
		results, err := a.AnalyzeBatch(ctx, candidates("aaaa.com", "bbbb.com"), 1, time.Minute, nil)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Len(t, results, 1)
		assert.Less(t, time.Since(st), 5*time.Second)
	})
}

func TestAnalyzer_SelectTemplate(t *testing.T) {
	a := New(Config{PremiumThreshold: 6}, nil, nil, nil)
	strong := domain.Candidate{Name: "aipay.com", Label: "aipay", Length: 5, Tags: []string{"ai", "pay"},
		Metrics: domain.Metrics{DomainAuthority: domain.Float64(40)}}
	weak := domain.Candidate{Name: "randomlongname.com", Label: "randomlongname", Length: 14}
	assert.Equal(t, llm.TemplatePremium, a.SelectTemplate(strong))
	assert.Equal(t, llm.TemplateStandard, a.SelectTemplate(weak))

	noPremium := New(Config{}, nil, nil, nil)
	assert.Equal(t, llm.TemplateStandard, noPremium.SelectTemplate(strong))
}
