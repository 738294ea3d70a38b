package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/dropscope/pkg/domain"
)

// ProxyRepository keeps proxy liveness history between runs
type ProxyRepository struct {
	db *sqlx.DB
}

// NewProxyRepository creates a new proxy repository
func NewProxyRepository(db *sqlx.DB) *ProxyRepository {
	return &ProxyRepository{db: db}
}

type proxyRow struct {
	Protocol      string       `db:"protocol"`
	Host          string       `db:"host"`
	Port          int          `db:"port"`
	IsWorking     bool         `db:"is_working"`
	Disabled      bool         `db:"disabled"`
	LastTestedAt  sql.NullTime `db:"last_tested_at"`
	AvgResponseMS int64        `db:"avg_response_ms"`
	SuccessCount  int64        `db:"success_count"`
	FailureCount  int64        `db:"failure_count"`
}

// ProxyStats returns stored state of all known proxies keyed by endpoint key
func (r *ProxyRepository) ProxyStats(ctx context.Context) (map[string]domain.ProxyStats, error) {
	var rows []proxyRow
	err := r.db.SelectContext(ctx, &rows, `SELECT protocol, host, port, is_working, disabled, last_tested_at,
		avg_response_ms, success_count, failure_count FROM proxies`)
	if err != nil {
		return nil, fmt.Errorf("select proxies: %w", err)
	}
	res := make(map[string]domain.ProxyStats, len(rows))
	for _, row := range rows {
		ep := domain.ProxyEndpoint{Protocol: row.Protocol, Host: row.Host, Port: row.Port}
		st := domain.ProxyStats{
			IsWorking:           row.IsWorking,
			Disabled:            row.Disabled,
			AverageResponseTime: time.Duration(row.AvgResponseMS) * time.Millisecond,
			SuccessCount:        row.SuccessCount,
			FailureCount:        row.FailureCount,
		}
		if row.LastTestedAt.Valid {
			st.LastTestedAt = row.LastTestedAt.Time
		}
		res[ep.Key()] = st
	}
	return res, nil
}

// SaveProxyStats upserts the current state of the given endpoints
func (r *ProxyRepository) SaveProxyStats(ctx context.Context, eps []*domain.ProxyEndpoint) error {
	if len(eps) == 0 {
		return nil
	}
	now := utc(time.Now())
	err := newRetrier().Do(ctx, withRetry(func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		for _, ep := range eps {
			st := ep.Stats()
			var tested any
			if !st.LastTestedAt.IsZero() {
				tested = utc(st.LastTestedAt)
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO proxies (protocol, host, port, is_working, disabled, last_tested_at,
					avg_response_ms, success_count, failure_count, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(protocol, host, port) DO UPDATE SET
					is_working = excluded.is_working,
					disabled = excluded.disabled,
					last_tested_at = excluded.last_tested_at,
					avg_response_ms = excluded.avg_response_ms,
					success_count = excluded.success_count,
					failure_count = excluded.failure_count,
					updated_at = excluded.updated_at`,
				ep.Protocol, ep.Host, ep.Port, st.IsWorking, st.Disabled, tested,
				st.AverageResponseTime.Milliseconds(), st.SuccessCount, st.FailureCount, now)
			if err != nil {
				return fmt.Errorf("save proxy %s: %w", ep.Key(), err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit proxies: %w", err)
		}
		return nil
	}), errCritical)
	return unwrapCritical(err)
}
