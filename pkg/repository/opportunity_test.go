package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/dropscope/pkg/domain"
)

func TestOpportunityRepository_ReplaceList(t *testing.T) {
	repos, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	opps := []domain.RankedOpportunity{
		{Rank: 1, Name: "top.com", CompositeScore: 9, Tier: domain.TierBuyNow, Recommendation: domain.RecommendBuyNow, SourceCount: 2},
		{Rank: 2, Name: "mid.com", CompositeScore: 6, Tier: domain.TierBuy, Recommendation: domain.RecommendBuy, SourceCount: 1},
		{Rank: 3, Name: "low.com", CompositeScore: 2, Tier: domain.TierPass, Recommendation: domain.RecommendPass, SourceCount: 1},
	}
	require.NoError(t, repos.Opportunity.Replace(ctx, opps))

	all, err := repos.Opportunity.List(ctx, 0, "")
	require.NoError(t, err)
	assert.Equal(t, opps, all)

	limited, err := repos.Opportunity.List(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "mid.com", limited[1].Name)

	buy, err := repos.Opportunity.List(ctx, 0, domain.TierBuy)
	require.NoError(t, err)
	require.Len(t, buy, 1)
	assert.Equal(t, "mid.com", buy[0].Name)

	// replace drops the previous list
	require.NoError(t, repos.Opportunity.Replace(ctx, opps[:1]))
	all, err = repos.Opportunity.List(ctx, 0, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repos.Opportunity.Replace(ctx, nil))
	all, err = repos.Opportunity.List(ctx, 0, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}
