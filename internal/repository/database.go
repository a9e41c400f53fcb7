package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database is a DBTX that can also run a function inside a transaction.
type Database interface {
	DBTX
	WithTx(ctx context.Context, fn func(tx DBTX) error) error
}

// PgDatabase adapts a pgx pool to Database.
type PgDatabase struct {
	*pgxpool.Pool
}

// NewPgDatabase wraps pool.
func NewPgDatabase(pool *pgxpool.Pool) *PgDatabase {
	return &PgDatabase{Pool: pool}
}

// WithTx runs fn in a transaction, committing if fn returns nil and rolling back otherwise.
func (d *PgDatabase) WithTx(ctx context.Context, fn func(tx DBTX) error) error {
	return pgx.BeginFunc(ctx, d.Pool, func(tx pgx.Tx) error {
		return fn(tx)
	})
}
