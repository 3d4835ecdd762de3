package postgres

import (
	"context"
	"database/sql"
)

// Querier is the part of *sql.DB and *sql.Tx the ride store writes through,
// so integration tests can run inside a rolled-back transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)
