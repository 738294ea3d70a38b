// Package ranker turns enriched candidates into an ordered list of investment opportunities.
package ranker

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/umputun/dropscope/pkg/domain"
)

// Config holds score adjustments and tier bands
type Config struct {
	PerSourceBonus float64 // bonus per independent source beyond the first
	MaxSourceBonus float64
	MissingPenalty float64 // applied when every metric is missing or zero
	BuyNowScore    float64
	BuyNowROI      float64
	BuyScore       float64
	BuyROI         float64
	WatchScore     float64
	WatchROI       float64
}

// DefaultConfig returns the default bands
func DefaultConfig() Config {
	return Config{PerSourceBonus: 0.25, MaxSourceBonus: 0.75, MissingPenalty: 0.5,
		BuyNowScore: 8, BuyNowROI: 200, BuyScore: 6.5, BuyROI: 100, WatchScore: 5, WatchROI: 50}
}

// Ranker ranks enriched candidates
type Ranker struct {
	cfg Config
}

// New makes a ranker
func New(cfg Config) *Ranker {
	return &Ranker{cfg: cfg}
}

// Rank scores, classifies and orders the candidates. Order is composite score descending,
// then ROI descending, then name ascending, ranks start at 1. Financial fields are copied as is.
func (r *Ranker) Rank(enriched []domain.EnrichedCandidate) []domain.RankedOpportunity {
	res := make([]domain.RankedOpportunity, 0, len(enriched))
	for _, e := range enriched {
		a := e.Analysis
		name := e.Candidate.Name
		if name == "" {
			name = a.Name
		}
		bonus := r.sourceBonus(e.Candidate.SourceCount())
		penalty := 0.0
		if e.Candidate.Metrics.Empty() {
			penalty = r.cfg.MissingPenalty
		}
		composite := round2(math.Min(10, math.Max(0, a.GlobalScore+bonus-penalty)))

		res = append(res, domain.RankedOpportunity{
			Name:             name,
			CompositeScore:   composite,
			GlobalScore:      a.GlobalScore,
			SubScores:        a.SubScores,
			RecommendedPrice: a.RecommendedPrice,
			ResaleValue:      a.ResaleValue,
			ROIPercent:       a.ROIPercent,
			Recommendation:   a.Recommendation,
			Tier:             r.Tier(composite, a.ROIPercent),
			Source:           e.Candidate.Source,
			SourceCount:      e.Candidate.SourceCount(),
			SourceBonus:      bonus,
			MissingPenalty:   penalty,
		})
	}

	slices.SortStableFunc(res, compare)
	for i := range res {
		res[i].Rank = i + 1
	}
	return res
}

// Tier classifies a composite score and ROI into the recommendation bands
func (r *Ranker) Tier(composite, roi float64) domain.Tier {
	switch {
	case composite >= r.cfg.BuyNowScore && roi >= r.cfg.BuyNowROI:
		return domain.TierBuyNow
	case composite >= r.cfg.BuyScore && roi >= r.cfg.BuyROI:
		return domain.TierBuy
	case composite >= r.cfg.WatchScore || roi >= r.cfg.WatchROI:
		return domain.TierWatch
	default:
		return domain.TierPass
	}
}

func (r *Ranker) sourceBonus(sources int) float64 {
	if sources <= 1 {
		return 0
	}
	bonus := r.cfg.PerSourceBonus * float64(sources-1)
	if r.cfg.MaxSourceBonus > 0 {
		bonus = math.Min(bonus, r.cfg.MaxSourceBonus)
	}
	return round2(bonus)
}

func compare(a, b domain.RankedOpportunity) int {
	if c := cmp.Compare(b.CompositeScore, a.CompositeScore); c != 0 {
		return c
	}
	if c := cmp.Compare(b.ROIPercent, a.ROIPercent); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
