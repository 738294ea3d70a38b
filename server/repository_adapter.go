package server

import (
	"context"

	"github.com/umputun/dropscope/pkg/cache"
	"github.com/umputun/dropscope/pkg/domain"
	"github.com/umputun/dropscope/pkg/repository"
)

// CacheStatsProvider reports analysis cache counters
type CacheStatsProvider interface {
	Stats(ctx context.Context) (cache.Stats, error)
}

// RepositoryAdapter adapts repositories to server.Store interface
type RepositoryAdapter struct {
	repos *repository.Repositories
	cache CacheStatsProvider
}

// NewRepositoryAdapter creates a new repository adapter, cache is optional
func NewRepositoryAdapter(repos *repository.Repositories, c CacheStatsProvider) *RepositoryAdapter {
	return &RepositoryAdapter{repos: repos, cache: c}
}

// Opportunities returns the stored ranked list
func (r *RepositoryAdapter) Opportunities(ctx context.Context, limit int, tier domain.Tier) ([]domain.RankedOpportunity, error) {
	return r.repos.Opportunity.List(ctx, limit, tier)
}

// Candidate returns candidate by normalized name
func (r *RepositoryAdapter) Candidate(ctx context.Context, name string) (*domain.Candidate, error) {
	return r.repos.Candidate.Get(ctx, name)
}

// Analysis returns the stored analysis of the candidate
func (r *RepositoryAdapter) Analysis(ctx context.Context, name string) (*domain.AnalysisResult, error) {
	return r.repos.Analysis.GetAnalysis(ctx, name)
}

// Runs returns recent run summaries
func (r *RepositoryAdapter) Runs(ctx context.Context, limit int) ([]domain.Run, error) {
	return r.repos.Run.ListRuns(ctx, limit)
}

// Counts returns candidate totals
func (r *RepositoryAdapter) Counts(ctx context.Context) (repository.CandidateCounts, error) {
	return r.repos.Candidate.Count(ctx)
}

// CacheStats returns cache counters, zero stats without a cache
func (r *RepositoryAdapter) CacheStats(ctx context.Context) (cache.Stats, error) {
	if r.cache == nil {
		return cache.Stats{}, nil
	}
	return r.cache.Stats(ctx)
}
