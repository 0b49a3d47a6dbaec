package connection

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/duckdb/duckdb-go/v2"
)

func dialDuckDB(_ context.Context, s Settings) (*sql.DB, error) {
	if s.Path == "" {
		return nil, fmt.Errorf("duckdb requires a database path")
	}
	dsn := s.Path
	if dsn != ":memory:" {
		dsn += "?access_mode=read_only"
	}
	c, err := duckdb.NewConnector(dsn, nil)
	if err != nil {
		return nil, fmt.Errorf("duckdb connector: %w", err)
	}
	return sql.OpenDB(c), nil
}
