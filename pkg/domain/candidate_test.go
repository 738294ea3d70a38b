package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Merge(t *testing.T) {
	base := Metrics{DomainAuthority: Float64(20), Backlinks: Int64(100)}
	upd := Metrics{Backlinks: Int64(150), TrustFlow: Float64(12)}

	res := base.Merge(upd)
	assert.InDelta(t, 20.0, *res.DomainAuthority, 0.001, "nil field in update keeps old value")
	assert.Equal(t, int64(150), *res.Backlinks)
	assert.InDelta(t, 12.0, *res.TrustFlow, 0.001)
	assert.Equal(t, int64(100), *base.Backlinks, "original not mutated")
}

func TestMetrics_Empty(t *testing.T) {
	assert.True(t, Metrics{}.Empty())
	assert.True(t, Metrics{DomainAuthority: Float64(0), Backlinks: Int64(0)}.Empty())
	assert.False(t, Metrics{Backlinks: Int64(3)}.Empty())
}

func TestMetrics_Authority(t *testing.T) {
	m := Metrics{DomainAuthority: Float64(15), TrustFlow: Float64(22)}
	assert.InDelta(t, 22.0, m.Authority(), 0.001)
	assert.InDelta(t, 0.0, Metrics{}.Authority(), 0.001)
}

func TestParseRecommendation(t *testing.T) {
	assert.Equal(t, RecommendBuyNow, ParseRecommendation("buy now"))
	assert.Equal(t, RecommendBuyNow, ParseRecommendation("STRONG_BUY"))
	assert.Equal(t, RecommendBuy, ParseRecommendation(" Buy "))
	assert.Equal(t, RecommendWatch, ParseRecommendation("hold"))
	assert.Equal(t, RecommendPass, ParseRecommendation("avoid"))
	assert.Equal(t, RecommendUnknown, ParseRecommendation("maybe?"))
	assert.Equal(t, RecommendUnknown, ParseRecommendation(""))
}

func TestCandidate_SourceCount(t *testing.T) {
	assert.Equal(t, 1, Candidate{Source: "a"}.SourceCount())
	assert.Equal(t, 2, Candidate{Source: "a", Sources: []string{"a", "b"}}.SourceCount())
	assert.Equal(t, 0, Candidate{}.SourceCount())
}
