package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/dropscope/pkg/domain"
)

// CacheRepository stores raw reasoning service responses keyed by content hash
type CacheRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewCacheRepository creates a new cache repository
func NewCacheRepository(db *sqlx.DB) *CacheRepository {
	return &CacheRepository{db: db, now: time.Now}
}

type cacheRow struct {
	Key        string    `db:"key"`
	TemplateID string    `db:"template_id"`
	Name       string    `db:"name"`
	Response   string    `db:"response"`
	CreatedAt  time.Time `db:"created_at"`
	HitCount   int64     `db:"hit_count"`
}

// CacheStats summarizes cache content
type CacheStats struct {
	Entries int64 `db:"entries" json:"entries"`
	Hits    int64 `db:"hits" json:"hits"`
}

// Get returns the entry for key if it was created at or after notBefore, and increments its hit counter.
// Stale and missing entries both return ErrNotFound.
func (r *CacheRepository) Get(ctx context.Context, key string, notBefore time.Time) (*domain.CacheEntry, error) {
	var res *domain.CacheEntry
	err := newRetrier().Do(ctx, withRetry(func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var row cacheRow
		err = tx.GetContext(ctx, &row, `SELECT key, template_id, name, response, created_at, hit_count
			FROM cache_entries WHERE key = ? AND created_at >= ?`, key, utc(notBefore))
		if errors.Is(err, sql.ErrNoRows) {
			return &criticalError{err: fmt.Errorf("cache entry %s: %w", key, ErrNotFound)}
		}
		if err != nil {
			return fmt.Errorf("get cache entry: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "UPDATE cache_entries SET hit_count = hit_count + 1 WHERE key = ?", key); err != nil {
			return fmt.Errorf("increment hit count: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit cache hit: %w", err)
		}
		res = &domain.CacheEntry{Key: row.Key, TemplateID: row.TemplateID, Name: row.Name,
			Response: row.Response, CreatedAt: row.CreatedAt, HitCount: row.HitCount + 1}
		return nil
	}), errCritical)
	if err != nil {
		return nil, unwrapCritical(err)
	}
	return res, nil
}

// Put stores an entry, replacing any previous response for the same key
func (r *CacheRepository) Put(ctx context.Context, e domain.CacheEntry) error {
	created := e.CreatedAt
	if created.IsZero() {
		created = r.now()
	}
	err := newRetrier().Do(ctx, withRetry(func() error {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO cache_entries (key, template_id, name, response, created_at, hit_count)
			VALUES (?, ?, ?, ?, ?, 0)
			ON CONFLICT(key) DO UPDATE SET
				response = excluded.response,
				created_at = excluded.created_at,
				hit_count = 0`,
			e.Key, e.TemplateID, e.Name, e.Response, utc(created))
		if err != nil {
			return fmt.Errorf("put cache entry %s: %w", e.Key, err)
		}
		return nil
	}), errCritical)
	return unwrapCritical(err)
}

// Purge deletes entries created before olderThan and returns the number of removed rows
func (r *CacheRepository) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	var removed int64
	err := newRetrier().Do(ctx, withRetry(func() error {
		res, err := r.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE created_at < ?", utc(olderThan))
		if err != nil {
			return fmt.Errorf("purge cache: %w", err)
		}
		if removed, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		return nil
	}), errCritical)
	if err != nil {
		return 0, unwrapCritical(err)
	}
	return removed, nil
}

// Stats returns the number of entries and the total of recorded hits
func (r *CacheRepository) Stats(ctx context.Context) (CacheStats, error) {
	var res CacheStats
	err := r.db.GetContext(ctx, &res, "SELECT COUNT(*) AS entries, COALESCE(SUM(hit_count), 0) AS hits FROM cache_entries")
	if err != nil {
		return CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return res, nil
}
