package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/dropscope/pkg/domain"
)

// RunRepository records pipeline runs
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

type runRow struct {
	ID         string       `db:"id"`
	Mode       string       `db:"mode"`
	Status     string       `db:"status"`
	Error      string       `db:"error"`
	Stats      string       `db:"stats"`
	StartedAt  time.Time    `db:"started_at"`
	FinishedAt sql.NullTime `db:"finished_at"`
}

// StartRun records a new running run and returns its id
func (r *RunRepository) StartRun(ctx context.Context, mode string) (string, error) {
	id := uuid.NewString()
	err := newRetrier().Do(ctx, withRetry(func() error {
		_, err := r.db.ExecContext(ctx, "INSERT INTO runs (id, mode, status, started_at) VALUES (?, ?, ?, ?)",
			id, mode, string(domain.RunRunning), utc(time.Now()))
		if err != nil {
			return fmt.Errorf("start run: %w", err)
		}
		return nil
	}), errCritical)
	if err != nil {
		return "", unwrapCritical(err)
	}
	return id, nil
}

// FinishRun sets the final status, counters and error of the run
func (r *RunRepository) FinishRun(ctx context.Context, id string, status domain.RunStatus, stats map[string]int64, runErr error) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal run stats: %w", err)
	}
	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}
	err = newRetrier().Do(ctx, withRetry(func() error {
		res, err := r.db.ExecContext(ctx, "UPDATE runs SET status = ?, stats = ?, error = ?, finished_at = ? WHERE id = ?",
			string(status), string(data), errText, utc(time.Now()), id)
		if err != nil {
			return fmt.Errorf("finish run %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("run %s: %w", id, ErrNotFound)
		}
		return nil
	}), errCritical)
	return unwrapCritical(err)
}

// ListRuns returns the most recent runs first
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []runRow
	err := r.db.SelectContext(ctx, &rows, `SELECT id, mode, status, error, stats, started_at, finished_at
		FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	res := make([]domain.Run, 0, len(rows))
	for _, row := range rows {
		run := domain.Run{ID: row.ID, Mode: row.Mode, Status: domain.RunStatus(row.Status),
			Error: row.Error, StartedAt: row.StartedAt, Stats: map[string]int64{}}
		if row.Stats != "" {
			if err := json.Unmarshal([]byte(row.Stats), &run.Stats); err != nil {
				return nil, fmt.Errorf("unmarshal stats of run %s: %w", row.ID, err)
			}
		}
		if row.FinishedAt.Valid {
			t := row.FinishedAt.Time
			run.FinishedAt = &t
		}
		res = append(res, run)
	}
	return res, nil
}
