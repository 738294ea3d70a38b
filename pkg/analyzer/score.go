package analyzer

import (
	"math"

	"github.com/umputun/dropscope/pkg/domain"
)

// DefaultWeights are the global score weights used when none are configured
func DefaultWeights() domain.Weights {
	return domain.Weights{SEO: 0.30, Commercial: 0.30, Brandability: 0.20, Competition: 0.10, Risk: 0.10}
}

// Composite is the global score: weighted average of seo, commercial, brandability,
// inverted competition and inverted risk, normalized by the sum of weights and rounded
// to 2 decimals. Zero or negative weight sum gives 0.
func Composite(s domain.SubScores, w domain.Weights) float64 {
	sum := w.SEO + w.Commercial + w.Brandability + w.Competition + w.Risk
	if sum <= 0 {
		return 0
	}
	total := w.SEO*s.SEO + w.Commercial*s.Commercial + w.Brandability*s.Brandability +
		w.Competition*(10-s.Competition) + w.Risk*(10-s.Risk)
	return math.Round(total/sum*100) / 100
}

// PreliminaryScore estimates candidate value on 0-10 from local data only.
// Authority gives up to 4, backlinks up to 2, valued keywords up to 2, a short label up to 2.
func PreliminaryScore(c domain.Candidate) float64 {
	var score float64
	score += math.Min(c.Metrics.Authority(), 50) / 50 * 4
	if c.Metrics.Backlinks != nil && *c.Metrics.Backlinks > 0 {
		score += math.Min(float64(*c.Metrics.Backlinks), 1000) / 1000 * 2
	}
	score += math.Min(float64(len(c.Tags)), 2)
	switch {
	case c.Length > 0 && c.Length <= 6:
		score += 2
	case c.Length > 0 && c.Length <= 8:
		score++
	}
	return math.Round(score*100) / 100
}
