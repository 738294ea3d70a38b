package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/dropscope/pkg/domain"
)

// CandidateRepository is the durable, deduplicated candidate store
type CandidateRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewCandidateRepository creates a new candidate repository
func NewCandidateRepository(db *sqlx.DB) *CandidateRepository {
	return &CandidateRepository{db: db, now: time.Now}
}

// candidateRow is the sql representation of a candidate
type candidateRow struct {
	Name             string          `db:"name"`
	Label            string          `db:"label"`
	Suffix           string          `db:"suffix"`
	Length           int             `db:"length"`
	Source           string          `db:"source"`
	Sources          sql.NullString  `db:"sources"`
	Tags             string          `db:"tags"`
	DomainAuthority  sql.NullFloat64 `db:"domain_authority"`
	PageAuthority    sql.NullFloat64 `db:"page_authority"`
	TrustFlow        sql.NullFloat64 `db:"trust_flow"`
	CitationFlow     sql.NullFloat64 `db:"citation_flow"`
	Backlinks        sql.NullInt64   `db:"backlinks"`
	ReferringDomains sql.NullInt64   `db:"referring_domains"`
	AgeYears         sql.NullFloat64 `db:"age_years"`
	Observations     int64           `db:"observations"`
	Admitted         bool            `db:"admitted"`
	DiscoveredAt     time.Time       `db:"discovered_at"`
	LastSeenAt       time.Time       `db:"last_seen_at"`
	ListedAt         sql.NullTime    `db:"listed_at"`
	AnalyzedAt       sql.NullTime    `db:"analyzed_at"`
}

// candidateColumns selects a candidate with its distinct sources
const candidateColumns = `c.name, c.label, c.suffix, c.length, c.source, c.tags,
	c.domain_authority, c.page_authority, c.trust_flow, c.citation_flow,
	c.backlinks, c.referring_domains, c.age_years, c.observations, c.admitted,
	c.discovered_at, c.last_seen_at, c.listed_at, c.analyzed_at,
	(SELECT GROUP_CONCAT(s.source, ',') FROM (SELECT source FROM candidate_sources
		WHERE name = c.name ORDER BY first_seen_at, source) s) AS sources`

// Upsert inserts a new candidate or merges the observation into the stored one. Non-null metrics
// overwrite stored values, last_seen_at is refreshed and the observation counter is incremented in SQL.
// The whole operation is one transaction, safe for concurrent calls on the same name.
func (r *CandidateRepository) Upsert(ctx context.Context, c domain.Candidate) (domain.UpsertOutcome, error) {
	if c.Name == "" {
		return "", fmt.Errorf("upsert candidate: empty name")
	}
	seen := c.LastSeenAt
	if seen.IsZero() {
		seen = r.now()
	}
	seen = utc(seen)
	discovered := c.DiscoveredAt
	if discovered.IsZero() {
		discovered = seen
	}

	var outcome domain.UpsertOutcome
	err := newRetrier().Do(ctx, withRetry(func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var exists bool
		if err := tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM candidates WHERE name = ?)", c.Name); err != nil {
			return fmt.Errorf("check candidate exists: %w", err)
		}

		query := `
			INSERT INTO candidates (
				name, label, suffix, length, source, tags,
				domain_authority, page_authority, trust_flow, citation_flow,
				backlinks, referring_domains, age_years,
				observations, admitted, discovered_at, last_seen_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				domain_authority = COALESCE(excluded.domain_authority, candidates.domain_authority),
				page_authority = COALESCE(excluded.page_authority, candidates.page_authority),
				trust_flow = COALESCE(excluded.trust_flow, candidates.trust_flow),
				citation_flow = COALESCE(excluded.citation_flow, candidates.citation_flow),
				backlinks = COALESCE(excluded.backlinks, candidates.backlinks),
				referring_domains = COALESCE(excluded.referring_domains, candidates.referring_domains),
				age_years = COALESCE(excluded.age_years, candidates.age_years),
				tags = excluded.tags,
				admitted = MAX(candidates.admitted, excluded.admitted),
				last_seen_at = excluded.last_seen_at,
				observations = candidates.observations + 1
		`
		m := c.Metrics
		_, err = tx.ExecContext(ctx, query,
			c.Name, c.Label, c.Suffix, c.Length, c.Source, strings.Join(c.Tags, ","),
			m.DomainAuthority, m.PageAuthority, m.TrustFlow, m.CitationFlow,
			m.Backlinks, m.ReferringDomains, m.AgeYears,
			c.Admitted, utc(discovered), seen)
		if err != nil {
			return fmt.Errorf("upsert candidate %s: %w", c.Name, err)
		}

		if c.Source != "" {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO candidate_sources (name, source, first_seen_at, last_seen_at)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(name, source) DO UPDATE SET
					last_seen_at = excluded.last_seen_at,
					observations = candidate_sources.observations + 1`,
				c.Name, c.Source, seen, seen)
			if err != nil {
				return fmt.Errorf("record source of %s: %w", c.Name, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit upsert: %w", err)
		}
		outcome = domain.UpsertCreated
		if exists {
			outcome = domain.UpsertUpdated
		}
		return nil
	}), errCritical)
	if err != nil {
		return "", unwrapCritical(err)
	}
	return outcome, nil
}

// IsFresh reports whether the candidate is stored and was last seen less than window ago
func (r *CandidateRepository) IsFresh(ctx context.Context, name string, window time.Duration) (bool, error) {
	var lastSeen time.Time
	err := r.db.GetContext(ctx, &lastSeen, "SELECT last_seen_at FROM candidates WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check freshness of %s: %w", name, err)
	}
	return r.now().Sub(lastSeen) < window, nil
}

// ListUnenriched returns admitted candidates without analysis that weren't listed within the window,
// and claims them by setting listed_at in the same transaction. Two consecutive calls within the
// window never return the same candidate.
func (r *CandidateRepository) ListUnenriched(ctx context.Context, limit int, window time.Duration) ([]domain.Candidate, error) {
	if limit <= 0 {
		return []domain.Candidate{}, nil
	}
	now := utc(r.now())
	cutoff := now.Add(-window)

	var res []domain.Candidate
	err := newRetrier().Do(ctx, withRetry(func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var rows []candidateRow
		query := `SELECT ` + candidateColumns + `
			FROM candidates c
			WHERE c.admitted = 1 AND c.analyzed_at IS NULL
			AND (c.listed_at IS NULL OR c.listed_at <= ?)
			ORDER BY c.discovered_at, c.name
			LIMIT ?`
		if err := tx.SelectContext(ctx, &rows, query, cutoff, limit); err != nil {
			return fmt.Errorf("select unenriched: %w", err)
		}
		if len(rows) == 0 {
			res = []domain.Candidate{}
			return nil
		}

		names := make([]string, len(rows))
		for i, row := range rows {
			names[i] = row.Name
		}
		q, args, err := sqlx.In("UPDATE candidates SET listed_at = ? WHERE name IN (?)", now, names)
		if err != nil {
			return fmt.Errorf("build claim query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), args...); err != nil {
			return fmt.Errorf("claim unenriched: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit claim: %w", err)
		}

		res = make([]domain.Candidate, len(rows))
		for i := range rows {
			rows[i].ListedAt = sql.NullTime{Time: now, Valid: true}
			res[i] = rows[i].toDomain()
		}
		return nil
	}), errCritical)
	if err != nil {
		return nil, unwrapCritical(err)
	}
	return res, nil
}

// Get returns a candidate by normalized name
func (r *CandidateRepository) Get(ctx context.Context, name string) (*domain.Candidate, error) {
	var row candidateRow
	err := r.db.GetContext(ctx, &row, `SELECT `+candidateColumns+` FROM candidates c WHERE c.name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("candidate %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get candidate %s: %w", name, err)
	}
	c := row.toDomain()
	return &c, nil
}

// CandidateCounts summarizes the store
type CandidateCounts struct {
	Total    int64 `db:"total" json:"total"`
	Admitted int64 `db:"admitted" json:"admitted"`
	Analyzed int64 `db:"analyzed" json:"analyzed"`
	Pending  int64 `db:"pending" json:"pending"`
}

// Count returns candidate totals
func (r *CandidateRepository) Count(ctx context.Context) (CandidateCounts, error) {
	var res CandidateCounts
	err := r.db.GetContext(ctx, &res, `
		SELECT COUNT(*) AS total,
			COALESCE(SUM(admitted), 0) AS admitted,
			COALESCE(SUM(CASE WHEN analyzed_at IS NOT NULL THEN 1 ELSE 0 END), 0) AS analyzed,
			COALESCE(SUM(CASE WHEN admitted = 1 AND analyzed_at IS NULL THEN 1 ELSE 0 END), 0) AS pending
		FROM candidates`)
	if err != nil {
		return CandidateCounts{}, fmt.Errorf("count candidates: %w", err)
	}
	return res, nil
}

// ResetAnalysis makes the candidate eligible for analysis again, operator requested re-analysis
func (r *CandidateRepository) ResetAnalysis(ctx context.Context, name string) error {
	err := newRetrier().Do(ctx, withRetry(func() error {
		res, err := r.db.ExecContext(ctx,
			"UPDATE candidates SET analyzed_at = NULL, listed_at = NULL, admitted = 1 WHERE name = ?", name)
		if err != nil {
			return fmt.Errorf("reset analysis of %s: %w", name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("candidate %s: %w", name, ErrNotFound)
		}
		return nil
	}), errCritical)
	return unwrapCritical(err)
}

func (row candidateRow) toDomain() domain.Candidate {
	c := domain.Candidate{
		Name:         row.Name,
		Label:        row.Label,
		Suffix:       row.Suffix,
		Length:       row.Length,
		Source:       row.Source,
		Observations: row.Observations,
		Admitted:     row.Admitted,
		DiscoveredAt: row.DiscoveredAt,
		LastSeenAt:   row.LastSeenAt,
		Metrics: domain.Metrics{
			DomainAuthority:  nullFloat(row.DomainAuthority),
			PageAuthority:    nullFloat(row.PageAuthority),
			TrustFlow:        nullFloat(row.TrustFlow),
			CitationFlow:     nullFloat(row.CitationFlow),
			Backlinks:        nullInt(row.Backlinks),
			ReferringDomains: nullInt(row.ReferringDomains),
			AgeYears:         nullFloat(row.AgeYears),
		},
	}
	if row.Tags != "" {
		c.Tags = strings.Split(row.Tags, ",")
	}
	if row.Sources.Valid && row.Sources.String != "" {
		c.Sources = strings.Split(row.Sources.String, ",")
	}
	if row.ListedAt.Valid {
		t := row.ListedAt.Time
		c.ListedAt = &t
	}
	if row.AnalyzedAt.Valid {
		t := row.AnalyzedAt.Time
		c.AnalyzedAt = &t
	}
	return c
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
