package db

import (
	"context"
	"database/sql"
)

// DBTX is what the jobshop repositories run their queries on. A *sql.DB
// serves plain reads; the *sql.Tx handed out by WithinTx serves the
// clock-in, break and clock-out read-modify-write sequences.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
