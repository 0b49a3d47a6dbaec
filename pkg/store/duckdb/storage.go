package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/duckdb/duckdb-go/v2"
)

const ReportRunsSchema = `
	CREATE TABLE IF NOT EXISTS report_runs (
		id VARCHAR PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		succeeded INTEGER NOT NULL,
		failed INTEGER NOT NULL
	);
`
const JobOutcomesSchema = `
	CREATE TABLE IF NOT EXISTS report_job_outcomes (
		run_id VARCHAR NOT NULL,
		position INTEGER NOT NULL,
		job VARCHAR NOT NULL,
		kind VARCHAR NOT NULL,
		status VARCHAR NOT NULL,
		detail VARCHAR,
		output_path VARCHAR,
		published_url VARCHAR,
		row_count INTEGER,
		duration_ms BIGINT,
		PRIMARY KEY (run_id, position)
	);
`

var bootQueries = []string{
	ReportRunsSchema,
	JobOutcomesSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	if settings.DbPath == "" {
		return nil, fmt.Errorf("history database path is empty")
	}
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			if _, err := exec.ExecContext(context.Background(), query, nil); err != nil {
				return fmt.Errorf("failed to run boot query: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %s: %w", settings.DbPath, err)
	}

	return sql.OpenDB(c), nil
}
