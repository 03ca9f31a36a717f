package db

import (
	"context"
	"database/sql"
)

// DBTX is the query surface the entry and work-type repositories need. Reads
// such as the day view run on the pool; a validated save runs its bucket
// read and its writes on the *sql.Tx handed out by WithinTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
