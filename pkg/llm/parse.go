package llm

import (
	"errors"
	"html"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tidwall/gjson"

	"github.com/umputun/dropscope/pkg/domain"
	"github.com/umputun/dropscope/pkg/jsonscan"
)

// ErrNoAnalysis is returned when the response holds no JSON object with analysis fields
var ErrNoAnalysis = errors.New("no analysis json object in response")

// maxReasoningLen limits stored reasoning text, in runes
const maxReasoningLen = 1000

// Analysis is the parsed answer of the reasoning service
type Analysis struct {
	SubScores        domain.SubScores
	RecommendedPrice float64
	ResaleValue      float64
	ROIPercent       float64
	Recommendation   domain.Recommendation
	Reasoning        string
}

// field aliases, the first present key wins
var (
	seoKeys            = []string{"seo_score", "seo"}
	commercialKeys     = []string{"commercial_score", "commercial"}
	brandabilityKeys   = []string{"brandability_score", "brandability", "brand_score"}
	competitionKeys    = []string{"competition_score", "competition"}
	riskKeys           = []string{"risk_score", "risk"}
	priceKeys          = []string{"recommended_price", "price", "max_bid"}
	resaleKeys         = []string{"resale_value", "estimated_value", "resale"}
	roiKeys            = []string{"roi_percent", "roi", "roi_pct"}
	recommendationKeys = []string{"recommendation", "verdict", "action"}
	reasoningKeys      = []string{"reasoning", "rationale", "explanation", "summary"}
)

var scoreKeys = [][]string{seoKeys, commercialKeys, brandabilityKeys, competitionKeys, riskKeys}

var sanitizer = bluemonday.StrictPolicy()

// ParseAnalysis extracts the analysis from free text. The JSON object may be wrapped in prose
// or nested one level under a wrapper key. Numbers may arrive as strings, missing fields become
// zero or UNKNOWN, scores are clamped to 0-10.
func ParseAnalysis(text string) (Analysis, error) {
	obj, ok := findAnalysisObject(text)
	if !ok {
		return Analysis{}, ErrNoAnalysis
	}

	res := Analysis{
		SubScores: domain.SubScores{
			SEO:          clampScore(number(obj, seoKeys)),
			Commercial:   clampScore(number(obj, commercialKeys)),
			Brandability: clampScore(number(obj, brandabilityKeys)),
			Competition:  clampScore(number(obj, competitionKeys)),
			Risk:         clampScore(number(obj, riskKeys)),
		},
		RecommendedPrice: math.Max(0, number(obj, priceKeys)),
		ResaleValue:      math.Max(0, number(obj, resaleKeys)),
		Recommendation:   domain.ParseRecommendation(field(obj, recommendationKeys).String()),
		Reasoning:        cleanText(field(obj, reasoningKeys).String()),
	}

	if roi := field(obj, roiKeys); roi.Exists() {
		res.ROIPercent = toNumber(roi)
	} else if res.RecommendedPrice > 0 && res.ResaleValue > 0 {
		res.ROIPercent = math.Round((res.ResaleValue-res.RecommendedPrice)/res.RecommendedPrice*10000) / 100
	}
	return res, nil
}

// findAnalysisObject returns the first embedded object carrying at least one score field
func findAnalysisObject(text string) (gjson.Result, bool) {
	for _, raw := range jsonscan.AllObjects(text) {
		obj := gjson.Parse(raw)
		if hasScores(obj) {
			return obj, true
		}
		var nested gjson.Result
		obj.ForEach(func(_, value gjson.Result) bool {
			if value.IsObject() && hasScores(value) {
				nested = value
				return false
			}
			return true
		})
		if nested.Exists() {
			return nested, true
		}
	}
	return gjson.Result{}, false
}

func hasScores(obj gjson.Result) bool {
	for _, keys := range scoreKeys {
		if field(obj, keys).Exists() {
			return true
		}
	}
	return false
}

func field(obj gjson.Result, keys []string) gjson.Result {
	for _, k := range keys {
		if v := obj.Get(k); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func number(obj gjson.Result, keys []string) float64 {
	return toNumber(field(obj, keys))
}

// toNumber accepts json numbers and strings like "7", "7/10", "$1,200" or "150%"
func toNumber(v gjson.Result) float64 {
	switch v.Type {
	case gjson.Number:
		return v.Num
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		if i := strings.Index(s, "/"); i > 0 {
			s = s[:i]
		}
		s = strings.NewReplacer("$", "", ",", "", "%", "", "USD", "", " ", "").Replace(s)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}

func clampScore(v float64) float64 {
	return math.Min(10, math.Max(0, v))
}

// cleanText strips markup and limits the length of model supplied text.
// Sanitize escapes entities, they are unescaped back as the result is stored as plain text.
func cleanText(s string) string {
	s = strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(s)))
	if utf8.RuneCountInString(s) > maxReasoningLen {
		s = string([]rune(s)[:maxReasoningLen])
	}
	return s
}
