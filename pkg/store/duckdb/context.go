package duckdb

import (
	"context"
	"database/sql"
)

type txKey struct{}

func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func GetTransaction(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// ExecerFrom returns the transaction bound to ctx, or db when there is none.
func ExecerFrom(ctx context.Context, db *sql.DB) Execer {
	if tx := GetTransaction(ctx); tx != nil {
		return tx
	}
	return db
}
