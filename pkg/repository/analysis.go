package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/dropscope/pkg/domain"
)

// AnalysisRepository stores enrichment results
type AnalysisRepository struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *sqlx.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

type analysisRow struct {
	Name              string    `db:"name"`
	SEOScore          float64   `db:"seo_score"`
	CommercialScore   float64   `db:"commercial_score"`
	BrandabilityScore float64   `db:"brandability_score"`
	CompetitionScore  float64   `db:"competition_score"`
	RiskScore         float64   `db:"risk_score"`
	RecommendedPrice  float64   `db:"recommended_price"`
	ResaleValue       float64   `db:"resale_value"`
	ROIPercent        float64   `db:"roi_percent"`
	Recommendation    string    `db:"recommendation"`
	Reasoning         string    `db:"reasoning"`
	GlobalScore       float64   `db:"global_score"`
	Weights           string    `db:"weights"`
	TemplateID        string    `db:"template_id"`
	CacheKey          string    `db:"cache_key"`
	FromCache         bool      `db:"from_cache"`
	AnalyzedAt        time.Time `db:"analyzed_at"`
}

const analysisColumns = `a.name, a.seo_score, a.commercial_score, a.brandability_score, a.competition_score,
	a.risk_score, a.recommended_price, a.resale_value, a.roi_percent, a.recommendation, a.reasoning,
	a.global_score, a.weights, a.template_id, a.cache_key, a.from_cache, a.analyzed_at`

// Save persists the analysis result and marks the candidate analyzed. When entry is not nil the raw
// response is cached in the same transaction, so a failure leaves neither record behind.
func (r *AnalysisRepository) Save(ctx context.Context, res domain.AnalysisResult, entry *domain.CacheEntry) error {
	weights, err := json.Marshal(res.Weights)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	analyzedAt := res.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = time.Now()
	}
	analyzedAt = utc(analyzedAt)

	err = newRetrier().Do(ctx, withRetry(func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if entry != nil {
			created := entry.CreatedAt
			if created.IsZero() {
				created = analyzedAt
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO cache_entries (key, template_id, name, response, created_at, hit_count)
				VALUES (?, ?, ?, ?, ?, 0)
				ON CONFLICT(key) DO UPDATE SET response = excluded.response, created_at = excluded.created_at`,
				entry.Key, entry.TemplateID, entry.Name, entry.Response, utc(created))
			if err != nil {
				return fmt.Errorf("cache response of %s: %w", res.Name, err)
			}
		}

		s := res.SubScores
		_, err = tx.ExecContext(ctx, `
			INSERT INTO analysis_results (
				name, seo_score, commercial_score, brandability_score, competition_score, risk_score,
				recommended_price, resale_value, roi_percent, recommendation, reasoning,
				global_score, weights, template_id, cache_key, from_cache, analyzed_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				seo_score = excluded.seo_score,
				commercial_score = excluded.commercial_score,
				brandability_score = excluded.brandability_score,
				competition_score = excluded.competition_score,
				risk_score = excluded.risk_score,
				recommended_price = excluded.recommended_price,
				resale_value = excluded.resale_value,
				roi_percent = excluded.roi_percent,
				recommendation = excluded.recommendation,
				reasoning = excluded.reasoning,
				global_score = excluded.global_score,
				weights = excluded.weights,
				template_id = excluded.template_id,
				cache_key = excluded.cache_key,
				from_cache = excluded.from_cache,
				analyzed_at = excluded.analyzed_at`,
			res.Name, s.SEO, s.Commercial, s.Brandability, s.Competition, s.Risk,
			res.RecommendedPrice, res.ResaleValue, res.ROIPercent, string(res.Recommendation), res.Reasoning,
			res.GlobalScore, string(weights), res.TemplateID, res.CacheKey, res.FromCache, analyzedAt)
		if err != nil {
			return fmt.Errorf("save analysis of %s: %w", res.Name, err)
		}

		upd, err := tx.ExecContext(ctx, "UPDATE candidates SET analyzed_at = ? WHERE name = ?", analyzedAt, res.Name)
		if err != nil {
			return fmt.Errorf("mark %s analyzed: %w", res.Name, err)
		}
		n, err := upd.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return &criticalError{err: fmt.Errorf("candidate %s: %w", res.Name, ErrNotFound)}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit analysis: %w", err)
		}
		return nil
	}), errCritical)
	return unwrapCritical(err)
}

// GetAnalysis returns the stored analysis of the candidate
func (r *AnalysisRepository) GetAnalysis(ctx context.Context, name string) (*domain.AnalysisResult, error) {
	var row analysisRow
	err := r.db.GetContext(ctx, &row, `SELECT `+analysisColumns+` FROM analysis_results a WHERE a.name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis of %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis of %s: %w", name, err)
	}
	res, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListEnriched returns all analyzed candidates with their results, ordered by name
func (r *AnalysisRepository) ListEnriched(ctx context.Context) ([]domain.EnrichedCandidate, error) {
	type enrichedRow struct {
		candidateRow
		analysisRow `db:"a"`
	}
	cols := candidateColumns + `,
		a.name AS "a.name", a.seo_score AS "a.seo_score", a.commercial_score AS "a.commercial_score",
		a.brandability_score AS "a.brandability_score", a.competition_score AS "a.competition_score",
		a.risk_score AS "a.risk_score", a.recommended_price AS "a.recommended_price",
		a.resale_value AS "a.resale_value", a.roi_percent AS "a.roi_percent",
		a.recommendation AS "a.recommendation", a.reasoning AS "a.reasoning",
		a.global_score AS "a.global_score", a.weights AS "a.weights", a.template_id AS "a.template_id",
		a.cache_key AS "a.cache_key", a.from_cache AS "a.from_cache", a.analyzed_at AS "a.analyzed_at"`

	var rows []enrichedRow
	query := `SELECT ` + cols + ` FROM candidates c JOIN analysis_results a ON a.name = c.name ORDER BY c.name`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list enriched: %w", err)
	}

	res := make([]domain.EnrichedCandidate, 0, len(rows))
	for _, row := range rows {
		analysis, err := row.analysisRow.toDomain()
		if err != nil {
			return nil, err
		}
		res = append(res, domain.EnrichedCandidate{Candidate: row.candidateRow.toDomain(), Analysis: analysis})
	}
	return res, nil
}

func (row analysisRow) toDomain() (domain.AnalysisResult, error) {
	res := domain.AnalysisResult{
		Name: row.Name,
		SubScores: domain.SubScores{
			SEO:          row.SEOScore,
			Commercial:   row.CommercialScore,
			Brandability: row.BrandabilityScore,
			Competition:  row.CompetitionScore,
			Risk:         row.RiskScore,
		},
		RecommendedPrice: row.RecommendedPrice,
		ResaleValue:      row.ResaleValue,
		ROIPercent:       row.ROIPercent,
		Recommendation:   domain.Recommendation(row.Recommendation),
		Reasoning:        row.Reasoning,
		GlobalScore:      row.GlobalScore,
		TemplateID:       row.TemplateID,
		CacheKey:         row.CacheKey,
		FromCache:        row.FromCache,
		AnalyzedAt:       row.AnalyzedAt,
	}
	if row.Weights != "" {
		if err := json.Unmarshal([]byte(row.Weights), &res.Weights); err != nil {
			return domain.AnalysisResult{}, fmt.Errorf("unmarshal weights of %s: %w", row.Name, err)
		}
	}
	return res, nil
}
