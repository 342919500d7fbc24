package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"listing_crawler/internal/domain"
)

type runStateRow struct {
	LastRun      *time.Time `db:"last_run"`
	LastFailure  *time.Time `db:"last_failure"`
	TotalScraped int64      `db:"total_scraped"`
	TotalNew     int64      `db:"total_new"`
	TotalUpdated int64      `db:"total_updated"`
	TotalSuccess int64      `db:"total_success"`
	TotalErrors  int64      `db:"total_errors"`
}

type runHistoryRow struct {
	ID          string    `db:"id"`
	Kind        string    `db:"kind"`
	Status      string    `db:"status"`
	StartedAt   time.Time `db:"started_at"`
	DurationMs  int64     `db:"duration_ms"`
	Processed   int       `db:"processed"`
	Success     int       `db:"success"`
	Errors      int       `db:"errors"`
	New         int       `db:"new_listings"`
	Updated     int       `db:"updated"`
	Descriptors int       `db:"descriptors"`
	Pages       int       `db:"pages"`
	RateLimited int       `db:"rate_limited"`
	Error       string    `db:"error"`
}

// RunStateStore keeps one named RunState in run_state with its history
// in run_history.
type RunStateStore struct {
	db   *sqlx.DB
	tm   *TransactionManager
	name string
}

func NewRunStateStore(db *sqlx.DB, tm *TransactionManager, name string) *RunStateStore {
	return &RunStateStore{db: db, tm: tm, name: name}
}

func (s *RunStateStore) Load(ctx context.Context) (*domain.RunState, error) {
	var row runStateRow
	query := `
		SELECT last_run, last_failure, total_scraped, total_new, total_updated, total_success, total_errors
		FROM run_state
		WHERE name = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, s.name)
	if errors.Is(err, sql.ErrNoRows) {
		// Nothing saved yet
		return &domain.RunState{}, nil
	}
	if err != nil {
		return nil, err
	}

	var history []runHistoryRow
	err = sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &history, `
		SELECT id, kind, status, started_at, duration_ms, processed, success, errors,
			new_listings, updated, descriptors, pages, rate_limited, error
		FROM run_history
		WHERE state_name = $1
		ORDER BY position`, s.name)
	if err != nil {
		return nil, err
	}

	state := &domain.RunState{
		LastRun:      row.LastRun,
		LastFailure:  row.LastFailure,
		TotalScraped: row.TotalScraped,
		TotalNew:     row.TotalNew,
		TotalUpdated: row.TotalUpdated,
		TotalSuccess: row.TotalSuccess,
		TotalErrors:  row.TotalErrors,
		Runs:         make([]domain.RunSummary, 0, len(history)),
	}
	for _, h := range history {
		state.Runs = append(state.Runs, domain.RunSummary{
			ID:          h.ID,
			Kind:        domain.RunKind(h.Kind),
			StartedAt:   h.StartedAt,
			Duration:    time.Duration(h.DurationMs) * time.Millisecond,
			Status:      domain.RunStatus(h.Status),
			Processed:   h.Processed,
			Success:     h.Success,
			Errors:      h.Errors,
			New:         h.New,
			Updated:     h.Updated,
			Descriptors: h.Descriptors,
			Pages:       h.Pages,
			RateLimited: h.RateLimited,
			Error:       h.Error,
		})
	}

	return state, nil
}

// Save replaces the stored state and history in one transaction.
func (s *RunStateStore) Save(ctx context.Context, state *domain.RunState) error {
	return s.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, s.db)

		_, err := exec.ExecContext(ctx, `
			INSERT INTO run_state (name, last_run, last_failure, total_scraped, total_new, total_updated, total_success, total_errors)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (name) DO UPDATE SET
				last_run = EXCLUDED.last_run,
				last_failure = EXCLUDED.last_failure,
				total_scraped = EXCLUDED.total_scraped,
				total_new = EXCLUDED.total_new,
				total_updated = EXCLUDED.total_updated,
				total_success = EXCLUDED.total_success,
				total_errors = EXCLUDED.total_errors`,
			s.name,
			state.LastRun,
			state.LastFailure,
			state.TotalScraped,
			state.TotalNew,
			state.TotalUpdated,
			state.TotalSuccess,
			state.TotalErrors,
		)
		if err != nil {
			return err
		}

		if _, err := exec.ExecContext(ctx, `DELETE FROM run_history WHERE state_name = $1`, s.name); err != nil {
			return err
		}

		for i, r := range state.Runs {
			_, err := exec.ExecContext(ctx, `
				INSERT INTO run_history (
					id, state_name, position, kind, status, started_at, duration_ms, processed, success, errors,
					new_listings, updated, descriptors, pages, rate_limited, error
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
				r.ID, s.name, i, string(r.Kind), string(r.Status), r.StartedAt, r.Duration.Milliseconds(),
				r.Processed, r.Success, r.Errors, r.New, r.Updated, r.Descriptors, r.Pages, r.RateLimited, r.Error,
			)
			if err != nil {
				return err
			}
		}

		return nil
	})
}
