package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/de-tools/report-atlas/pkg/store/duckdb"
)

// Store keeps the outcome of every report run.
type Store interface {
	AddRun(ctx context.Context, run store.ReportRun, outcomes []store.JobOutcome) error
	ListRuns(ctx context.Context, limit int) ([]store.ReportRun, error)
	ListOutcomes(ctx context.Context, runID string) ([]store.JobOutcome, error)
}

type historyStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &historyStore{db: db}, nil
}

// AddRun writes the run and its outcomes in one transaction.
func (s *historyStore) AddRun(ctx context.Context, run store.ReportRun, outcomes []store.JobOutcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	ctx = duckdb.WithTransaction(ctx, tx)

	if err := s.insertRun(ctx, run); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := s.insertOutcomes(ctx, outcomes); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return nil
}

func (s *historyStore) insertRun(ctx context.Context, run store.ReportRun) error {
	_, err := duckdb.ExecerFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO report_runs (id, started_at, finished_at, succeeded, failed)
		VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.FinishedAt, run.Succeeded, run.Failed,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

func (s *historyStore) insertOutcomes(ctx context.Context, outcomes []store.JobOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	stmt, err := duckdb.ExecerFrom(ctx, s.db).PrepareContext(ctx, `
		INSERT INTO report_job_outcomes (
			run_id, position, job, kind, status, detail,
			output_path, published_url, row_count, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		_, err := stmt.ExecContext(ctx,
			o.RunID,
			o.Position,
			o.Job,
			o.Kind,
			o.Status,
			o.Detail,
			o.OutputPath,
			o.PublishedURL,
			o.Rows,
			o.DurationMs,
		)
		if err != nil {
			return fmt.Errorf("insert outcome %s: %w", o.Job, err)
		}
	}
	return nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns all runs.
func (s *historyStore) ListRuns(ctx context.Context, limit int) ([]store.ReportRun, error) {
	query := `
		SELECT id, started_at, finished_at, succeeded, failed
		FROM report_runs
		ORDER BY started_at DESC, id`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]store.ReportRun, 0)
	for rows.Next() {
		var r store.ReportRun
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Succeeded, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *historyStore) ListOutcomes(ctx context.Context, runID string) ([]store.JobOutcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, position, job, kind, status, detail,
		       output_path, published_url, row_count, duration_ms
		FROM report_job_outcomes
		WHERE run_id = ?
		ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := make([]store.JobOutcome, 0)
	for rows.Next() {
		var (
			o                            store.JobOutcome
			detail, output, publishedURL sql.NullString
		)
		if err := rows.Scan(&o.RunID, &o.Position, &o.Job, &o.Kind, &o.Status, &detail,
			&output, &publishedURL, &o.Rows, &o.DurationMs); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Detail = detail.String
		o.OutputPath = output.String
		o.PublishedURL = publishedURL.String
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
