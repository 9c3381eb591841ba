// Package postgres implements scheduler.Store on top of PostgreSQL
// via pgx, the same way the teacher's postgres.PGStore backs
// dag.Store: a thin pgxpool.Pool wrapper, raw SQL, explicit
// transactions for multi-row writes.
package postgres

import (
	"github.com/foundryflow/scheduler"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements scheduler.Store backed by a pgx connection pool.
type Store struct {
	db *pgxpool.Pool
}

var _ scheduler.Store = (*Store)(nil)

// New creates a Store backed by the given pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}
