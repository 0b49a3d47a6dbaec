package connection

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

func sqliteDSN(s Settings) string {
	if s.Path == ":memory:" {
		return s.Path
	}
	// mode=rw refuses to create a missing file, so a typo surfaces as a connection error.
	return fmt.Sprintf("file:%s?mode=rw&_busy_timeout=5000", s.Path)
}

func dialSQLite(_ context.Context, s Settings) (*sql.DB, error) {
	if s.Path == "" {
		return nil, fmt.Errorf("sqlite requires a database path")
	}
	db, err := sql.Open("sqlite3", sqliteDSN(s))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}
