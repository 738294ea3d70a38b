package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/dropscope/pkg/domain"
)

// OpportunityRepository keeps the ranked list of the last report
type OpportunityRepository struct {
	db *sqlx.DB
}

// NewOpportunityRepository creates a new opportunity repository
func NewOpportunityRepository(db *sqlx.DB) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

type opportunityRow struct {
	Rank              int     `db:"rank"`
	Name              string  `db:"name"`
	CompositeScore    float64 `db:"composite_score"`
	GlobalScore       float64 `db:"global_score"`
	SEOScore          float64 `db:"seo_score"`
	CommercialScore   float64 `db:"commercial_score"`
	BrandabilityScore float64 `db:"brandability_score"`
	CompetitionScore  float64 `db:"competition_score"`
	RiskScore         float64 `db:"risk_score"`
	RecommendedPrice  float64 `db:"recommended_price"`
	ResaleValue       float64 `db:"resale_value"`
	ROIPercent        float64 `db:"roi_percent"`
	Recommendation    string  `db:"recommendation"`
	Tier              string  `db:"tier"`
	Source            string  `db:"source"`
	SourceCount       int     `db:"source_count"`
	SourceBonus       float64 `db:"source_bonus"`
	MissingPenalty    float64 `db:"missing_penalty"`
}

// Replace swaps the stored ranked list for the given one atomically
func (r *OpportunityRepository) Replace(ctx context.Context, opps []domain.RankedOpportunity) error {
	now := utc(time.Now())
	err := newRetrier().Do(ctx, withRetry(func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, "DELETE FROM opportunities"); err != nil {
			return fmt.Errorf("clear opportunities: %w", err)
		}

		stmt, err := tx.PreparexContext(ctx, `
			INSERT INTO opportunities (
				rank, name, composite_score, global_score, seo_score, commercial_score,
				brandability_score, competition_score, risk_score, recommended_price, resale_value,
				roi_percent, recommendation, tier, source, source_count, source_bonus, missing_penalty, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, o := range opps {
			s := o.SubScores
			_, err := stmt.ExecContext(ctx, o.Rank, o.Name, o.CompositeScore, o.GlobalScore,
				s.SEO, s.Commercial, s.Brandability, s.Competition, s.Risk,
				o.RecommendedPrice, o.ResaleValue, o.ROIPercent, string(o.Recommendation), string(o.Tier),
				o.Source, o.SourceCount, o.SourceBonus, o.MissingPenalty, now)
			if err != nil {
				return fmt.Errorf("insert opportunity %s: %w", o.Name, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit opportunities: %w", err)
		}
		return nil
	}), errCritical)
	return unwrapCritical(err)
}

// List returns stored opportunities by rank. Zero limit means all, empty tier means any tier.
func (r *OpportunityRepository) List(ctx context.Context, limit int, tier domain.Tier) ([]domain.RankedOpportunity, error) {
	query := `SELECT rank, name, composite_score, global_score, seo_score, commercial_score,
		brandability_score, competition_score, risk_score, recommended_price, resale_value,
		roi_percent, recommendation, tier, source, source_count, source_bonus, missing_penalty
		FROM opportunities`
	args := []any{}
	if tier != "" {
		query += " WHERE tier = ?"
		args = append(args, string(tier))
	}
	query += " ORDER BY rank"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []opportunityRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}

	res := make([]domain.RankedOpportunity, len(rows))
	for i, row := range rows {
		res[i] = domain.RankedOpportunity{
			Rank:           row.Rank,
			Name:           row.Name,
			CompositeScore: row.CompositeScore,
			GlobalScore:    row.GlobalScore,
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
			Tier:             domain.Tier(row.Tier),
			Source:           row.Source,
			SourceCount:      row.SourceCount,
			SourceBonus:      row.SourceBonus,
			MissingPenalty:   row.MissingPenalty,
		}
	}
	return res, nil
}
