package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/dropscope/pkg/cache"
	"github.com/umputun/dropscope/pkg/domain"
	"github.com/umputun/dropscope/pkg/repository"
)

func setupRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	repos, err := repository.NewRepositories(context.Background(),
		repository.Config{DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1, ConnMaxLifetime: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repos.Close()) })
	return repos
}

func TestRepositoryAdapter(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	_, err := repos.Candidate.Upsert(ctx, domain.Candidate{Name: "rocket.io", Label: "rocket", Suffix: "io", Length: 6,
		Source: "alpha", Admitted: true})
	require.NoError(t, err)
	_, err = repos.Candidate.Upsert(ctx, domain.Candidate{Name: "plain.com", Label: "plain", Suffix: "com", Length: 5,
		Source: "beta", Admitted: true})
	require.NoError(t, err)
	require.NoError(t, repos.Analysis.Save(ctx, domain.AnalysisResult{Name: "rocket.io", GlobalScore: 8.1,
		Recommendation: domain.RecommendBuyNow, TemplateID: "standard-v1"}, nil))
	require.NoError(t, repos.Opportunity.Replace(ctx, []domain.RankedOpportunity{
		{Rank: 1, Name: "rocket.io", CompositeScore: 8.1, Tier: domain.TierBuyNow},
	}))
	id, err := repos.Run.StartRun(ctx, "all")
	require.NoError(t, err)
	require.NoError(t, repos.Run.FinishRun(ctx, id, domain.RunSuccess, map[string]int64{"ranked": 1}, nil))

	c := cache.New(repos.Cache, time.Hour)
	adapter := NewRepositoryAdapter(repos, c)

	opps, err := adapter.Opportunities(ctx, 10, domain.TierBuyNow)
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "rocket.io", opps[0].Name)

	cand, err := adapter.Candidate(ctx, "rocket.io")
	require.NoError(t, err)
	assert.NotNil(t, cand.AnalyzedAt)

	a, err := adapter.Analysis(ctx, "rocket.io")
	require.NoError(t, err)
	assert.InDelta(t, 8.1, a.GlobalScore, 0.001)

	_, err = adapter.Analysis(ctx, "plain.com")
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	_, err = adapter.Candidate(ctx, "missing.com")
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	counts, err := adapter.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, repository.CandidateCounts{Total: 2, Admitted: 2, Analyzed: 1, Pending: 1}, counts)

	runs, err := adapter.Runs(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.RunSuccess, runs[0].Status)

	st, err := adapter.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), st.TTLSeconds)
}

func TestRepositoryAdapter_NoCache(t *testing.T) {
	adapter := NewRepositoryAdapter(setupRepos(t), nil)
	st, err := adapter.CacheStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cache.Stats{}, st)
}
