package ranker

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/dropscope/pkg/domain"
)

func enriched(name string, global, roi float64, sources ...string) domain.EnrichedCandidate {
	c := domain.Candidate{Name: name, Sources: sources, Metrics: domain.Metrics{DomainAuthority: domain.Float64(25)}}
	if len(sources) > 0 {
		c.Source = sources[0]
	}
	return domain.EnrichedCandidate{
		Candidate: c,
		Analysis: domain.AnalysisResult{Name: name, GlobalScore: global, ROIPercent: roi,
			RecommendedPrice: 100, ResaleValue: 100 + roi, Recommendation: domain.RecommendBuy},
	}
}

func TestRanker_Rank(t *testing.T) {
	r := New(DefaultConfig())

	res := r.Rank([]domain.EnrichedCandidate{
		enriched("low.com", 3, 10, "alpha"),
		enriched("top.com", 8.5, 300, "alpha"),
		enriched("multi.com", 6, 150, "alpha", "beta", "gamma"),
	})
	require.Len(t, res, 3)

	assert.Equal(t, "top.com", res[0].Name)
	assert.Equal(t, 1, res[0].Rank)
	assert.Equal(t, domain.TierBuyNow, res[0].Tier)
	assert.InDelta(t, 8.5, res[0].CompositeScore, 0.0001)

	assert.Equal(t, "multi.com", res[1].Name)
	assert.Equal(t, 2, res[1].Rank)
	assert.InDelta(t, 0.5, res[1].SourceBonus, 0.0001)
	assert.InDelta(t, 6.5, res[1].CompositeScore, 0.0001)
	assert.Equal(t, domain.TierBuy, res[1].Tier)
	assert.Equal(t, 3, res[1].SourceCount)
	assert.Equal(t, "alpha", res[1].Source)

	assert.Equal(t, "low.com", res[2].Name)
	assert.Equal(t, domain.TierPass, res[2].Tier)

	// financial fields at face value
	assert.InDelta(t, 100.0, res[0].RecommendedPrice, 0)
	assert.InDelta(t, 400.0, res[0].ResaleValue, 0)
	assert.Equal(t, domain.RecommendBuy, res[0].Recommendation)
}

func TestRanker_TieBreak(t *testing.T) {
	r := New(DefaultConfig())

	res := r.Rank([]domain.EnrichedCandidate{
		enriched("bravo.com", 7, 120, "alpha"),
		enriched("charlie.com", 7, 300, "alpha"),
		enriched("alpha.com", 7, 120, "alpha"),
	})
	require.Len(t, res, 3)
	// same composite: roi descending, then name ascending
	assert.Equal(t, []string{"charlie.com", "alpha.com", "bravo.com"}, []string{res[0].Name, res[1].Name, res[2].Name})
	assert.Equal(t, []int{1, 2, 3}, []int{res[0].Rank, res[1].Rank, res[2].Rank})

	// input order doesn't matter
	again := r.Rank([]domain.EnrichedCandidate{
		enriched("alpha.com", 7, 120, "alpha"),
		enriched("charlie.com", 7, 300, "alpha"),
		enriched("bravo.com", 7, 120, "alpha"),
	})
	assert.Equal(t, res, again)
}

func TestRanker_Adjustments(t *testing.T) {
	r := New(DefaultConfig())

	t.Run("missing metrics penalty", func(t *testing.T) {
		e := enriched("bare.com", 6, 100, "alpha")
		e.Candidate.Metrics = domain.Metrics{Backlinks: domain.Int64(0)}
		res := r.Rank([]domain.EnrichedCandidate{e})
		require.Len(t, res, 1)
		assert.InDelta(t, 0.5, res[0].MissingPenalty, 0.0001)
		assert.InDelta(t, 5.5, res[0].CompositeScore, 0.0001)
	})

	t.Run("source bonus capped and score clamped", func(t *testing.T) {
		e := enriched("popular.com", 9.8, 500, "a", "b", "c", "d", "e", "f")
		res := r.Rank([]domain.EnrichedCandidate{e})
		require.Len(t, res, 1)
		assert.InDelta(t, 0.75, res[0].SourceBonus, 0.0001)
		assert.InDelta(t, 10.0, res[0].CompositeScore, 0.0001)
	})

	t.Run("clamped at zero", func(t *testing.T) {
		e := enriched("zero.com", 0.2, 0)
		e.Candidate.Metrics = domain.Metrics{}
		res := r.Rank([]domain.EnrichedCandidate{e})
		assert.InDelta(t, 0.0, res[0].CompositeScore, 0.0001)
		assert.Zero(t, res[0].SourceCount)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, r.Rank(nil))
	})
}

func TestRanker_Tier(t *testing.T) {
	r := New(DefaultConfig())
	tbl := []struct {
		composite, roi float64
		want           domain.Tier
	}{
		{8, 200, domain.TierBuyNow},
		{9, 199, domain.TierBuy},
		{6.5, 100, domain.TierBuy},
		{7.9, 99, domain.TierWatch},
		{5, 0, domain.TierWatch},
		{1, 50, domain.TierWatch},
		{4.99, 49, domain.TierPass},
	}
	for _, tt := range tbl {
		assert.Equal(t, tt.want, r.Tier(tt.composite, tt.roi), "composite %v, roi %v", tt.composite, tt.roi)
	}
}

func TestWriteCSV(t *testing.T) {
	opps := []domain.RankedOpportunity{
		{Rank: 1, Name: "top.com", CompositeScore: 8.75, SubScores: domain.SubScores{SEO: 8, Commercial: 9, Brandability: 7,
			Competition: 3, Risk: 1}, RecommendedPrice: 250, ResaleValue: 2500000, ROIPercent: 900,
			Recommendation: domain.RecommendBuyNow, Source: "alpha", Tier: domain.TierBuyNow},
		{Rank: 2, Name: "mid, inc.com", CompositeScore: 6, Recommendation: domain.RecommendWatch, Source: "beta", Tier: domain.TierWatch},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, opps))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,composite_score,seo_score,commercial_score,brandability_score,competition_score,risk_score,"+
		"recommended_price,resale_value,roi_percent,recommendation,source,tier", lines[0])
	assert.Equal(t, "top.com,8.75,8,9,7,3,1,250,2500000,900,BUY_NOW,alpha,buy-now", lines[1])
	assert.Equal(t, `"mid, inc.com",6,0,0,0,0,0,0,0,0,WATCH,beta,watch`, lines[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "name,composite_score,seo_score,commercial_score,brandability_score,competition_score,risk_score,"+
		"recommended_price,resale_value,roi_percent,recommendation,source,tier\n", buf.String())
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_WriteError(t *testing.T) {
	err := WriteCSV(failWriter{}, []domain.RankedOpportunity{{Name: "x.com"}})
	require.ErrorContains(t, err, "disk full")
}
