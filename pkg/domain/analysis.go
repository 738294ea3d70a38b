package domain

import (
	"strings"
	"time"
)

// SubScores are the normalized 0-10 scores returned by the reasoning service
type SubScores struct {
	SEO          float64 `json:"seo_score" csv:"seo_score"`
	Commercial   float64 `json:"commercial_score" csv:"commercial_score"`
	Brandability float64 `json:"brandability_score" csv:"brandability_score"`
	Competition  float64 `json:"competition_score" csv:"competition_score"` // saturation, higher is worse
	Risk         float64 `json:"risk_score" csv:"risk_score"`               // higher is worse
}

// Recommendation is the categorical verdict of the reasoning service
type Recommendation string

// recommendation labels accepted from the reasoning service
const (
	RecommendBuyNow  Recommendation = "BUY_NOW"
	RecommendBuy     Recommendation = "BUY"
	RecommendWatch   Recommendation = "WATCH"
	RecommendPass    Recommendation = "PASS"
	RecommendUnknown Recommendation = "UNKNOWN"
)

// ParseRecommendation maps free-form labels to the closed set, unknown labels map to UNKNOWN
func ParseRecommendation(s string) Recommendation {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch norm {
	case "BUY_NOW", "STRONG_BUY":
		return RecommendBuyNow
	case "BUY":
		return RecommendBuy
	case "WATCH", "HOLD":
		return RecommendWatch
	case "PASS", "AVOID", "SKIP":
		return RecommendPass
	default:
		return RecommendUnknown
	}
}

// Weights are the coefficients of the global score formula
type Weights struct {
	SEO          float64 `json:"seo" yaml:"seo"`
	Commercial   float64 `json:"commercial" yaml:"commercial"`
	Brandability float64 `json:"brandability" yaml:"brandability"`
	Competition  float64 `json:"competition" yaml:"competition"`
	Risk         float64 `json:"risk" yaml:"risk"`
}

// AnalysisResult is the enrichment result for one candidate
type AnalysisResult struct {
	Name             string
	SubScores        SubScores
	RecommendedPrice float64
	ResaleValue      float64
	ROIPercent       float64
	Recommendation   Recommendation
	Reasoning        string
	GlobalScore      float64
	Weights          Weights // weights GlobalScore was computed with
	TemplateID       string
	CacheKey         string
	FromCache        bool
	AnalyzedAt       time.Time
}

// CacheEntry is a stored raw response of the reasoning service
type CacheEntry struct {
	Key        string
	TemplateID string
	Name       string
	Response   string
	CreatedAt  time.Time
	HitCount   int64
}
