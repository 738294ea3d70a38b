package domain

// Tier is the recommendation bucket assigned by the ranker
type Tier string

// ranker tiers, best first
const (
	TierBuyNow Tier = "buy-now"
	TierBuy    Tier = "buy"
	TierWatch  Tier = "watch"
	TierPass   Tier = "pass"
)

// RankedOpportunity is one row of the final ranked list
type RankedOpportunity struct {
	Rank             int
	Name             string
	CompositeScore   float64
	GlobalScore      float64
	SubScores        SubScores
	RecommendedPrice float64
	ResaleValue      float64
	ROIPercent       float64
	Recommendation   Recommendation
	Tier             Tier
	Source           string
	SourceCount      int
	SourceBonus      float64
	MissingPenalty   float64
}
