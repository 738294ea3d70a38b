package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/umputun/dropscope/pkg/domain"
	"github.com/umputun/dropscope/pkg/repository"
	"github.com/umputun/dropscope/pkg/source"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

type opportunityView struct {
	Rank             int                   `json:"rank"`
	Name             string                `json:"name"`
	CompositeScore   float64               `json:"composite_score"`
	GlobalScore      float64               `json:"global_score"`
	SubScores        domain.SubScores      `json:"sub_scores"`
	RecommendedPrice float64               `json:"recommended_price"`
	ResaleValue      float64               `json:"resale_value"`
	ROIPercent       float64               `json:"roi_percent"`
	Recommendation   domain.Recommendation `json:"recommendation"`
	Tier             domain.Tier           `json:"tier"`
	Source           string                `json:"source"`
	SourceCount      int                   `json:"source_count"`
}

type candidateView struct {
	Name         string         `json:"name"`
	Label        string         `json:"label"`
	Suffix       string         `json:"suffix"`
	Length       int            `json:"length"`
	Sources      []string       `json:"sources"`
	Tags         []string       `json:"tags,omitempty"`
	Metrics      domain.Metrics `json:"metrics"`
	Observations int64          `json:"observations"`
	Admitted     bool           `json:"admitted"`
	DiscoveredAt time.Time      `json:"discovered_at"`
	LastSeenAt   time.Time      `json:"last_seen_at"`
	AnalyzedAt   *time.Time     `json:"analyzed_at,omitempty"`
	Analysis     *analysisView  `json:"analysis,omitempty"`
}

type analysisView struct {
	SubScores        domain.SubScores      `json:"sub_scores"`
	GlobalScore      float64               `json:"global_score"`
	Weights          domain.Weights        `json:"weights"`
	RecommendedPrice float64               `json:"recommended_price"`
	ResaleValue      float64               `json:"resale_value"`
	ROIPercent       float64               `json:"roi_percent"`
	Recommendation   domain.Recommendation `json:"recommendation"`
	Reasoning        string                `json:"reasoning,omitempty"`
	TemplateID       string                `json:"template_id"`
	FromCache        bool                  `json:"from_cache"`
	AnalyzedAt       time.Time             `json:"analyzed_at"`
}

// statusHandler returns server status with store counters
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	counts, err := s.store.Counts(ctx)
	if err != nil {
		log.Printf("[ERROR] failed to count candidates: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	cacheStats, err := s.store.CacheStats(ctx)
	if err != nil {
		log.Printf("[ERROR] failed to get cache stats: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	runs, err := s.store.Runs(ctx, 1)
	if err != nil {
		log.Printf("[ERROR] failed to get last run: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	status := map[string]any{
		"status":     "ok",
		"version":    s.version,
		"time":       time.Now().UTC(),
		"candidates": counts,
		"cache":      cacheStats,
	}
	if len(runs) > 0 {
		status["last_run"] = runs[0]
	}
	renderJSON(w, r, http.StatusOK, status)
}

// opportunitiesHandler returns the latest ranked list, optionally limited and filtered by tier
func (s *Server) opportunitiesHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	tier := domain.Tier(r.URL.Query().Get("tier"))
	switch tier {
	case "", domain.TierBuyNow, domain.TierBuy, domain.TierWatch, domain.TierPass:
	default:
		renderError(w, r, fmt.Errorf("invalid tier %q", tier), http.StatusBadRequest)
		return
	}

	opps, err := s.store.Opportunities(r.Context(), limit, tier)
	if err != nil {
		log.Printf("[ERROR] failed to get opportunities: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	res := make([]opportunityView, 0, len(opps))
	for _, o := range opps {
		res = append(res, opportunityView{Rank: o.Rank, Name: o.Name, CompositeScore: o.CompositeScore,
			GlobalScore: o.GlobalScore, SubScores: o.SubScores, RecommendedPrice: o.RecommendedPrice,
			ResaleValue: o.ResaleValue, ROIPercent: o.ROIPercent, Recommendation: o.Recommendation,
			Tier: o.Tier, Source: o.Source, SourceCount: o.SourceCount})
	}
	renderJSON(w, r, http.StatusOK, res)
}

// candidateHandler returns one candidate by name, the name is normalized the same way sources are
func (s *Server) candidateHandler(w http.ResponseWriter, r *http.Request) {
	name, err := source.CanonicalName(r.PathValue("name"))
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	c, err := s.store.Candidate(r.Context(), name)
	if errors.Is(err, repository.ErrNotFound) {
		renderError(w, r, fmt.Errorf("candidate %s not found", name), http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[ERROR] failed to get candidate %s: %v", name, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	a, err := s.store.Analysis(r.Context(), name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Printf("[ERROR] failed to get analysis of %s: %v", name, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	view := candidateView{Name: c.Name, Label: c.Label, Suffix: c.Suffix, Length: c.Length, Sources: c.Sources,
		Tags: c.Tags, Metrics: c.Metrics, Observations: c.Observations, Admitted: c.Admitted,
		DiscoveredAt: c.DiscoveredAt, LastSeenAt: c.LastSeenAt, AnalyzedAt: c.AnalyzedAt}
	if a != nil {
		view.Analysis = &analysisView{SubScores: a.SubScores, GlobalScore: a.GlobalScore, Weights: a.Weights,
			RecommendedPrice: a.RecommendedPrice, ResaleValue: a.ResaleValue, ROIPercent: a.ROIPercent,
			Recommendation: a.Recommendation, Reasoning: a.Reasoning, TemplateID: a.TemplateID,
			FromCache: a.FromCache, AnalyzedAt: a.AnalyzedAt}
	}
	renderJSON(w, r, http.StatusOK, view)
}

// runsHandler returns recent runs, newest first
func (s *Server) runsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	if limit == 0 {
		limit = 20
	}

	runs, err := s.store.Runs(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] failed to get runs: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []domain.Run{}
	}
	renderJSON(w, r, http.StatusOK, runs)
}

// parseLimit reads the limit query parameter, empty means default
func parseLimit(v string) (int, error) {
	if v == "" {
		return defaultListLimit, nil
	}
	limit, err := strconv.Atoi(v)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("invalid limit %q", v)
	}
	return min(limit, maxListLimit), nil
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
