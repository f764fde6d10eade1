// Package db is the persistence layer (C1): typed repositories for orders,
// items, tasks, provider-orders, state events, the webhook/processor
// dedup ledgers, payments, notification preferences, and worker run
// history. No generated sqlc package was available in the retrieved
// pack (the teacher's `libs/go/db` import has no corresponding source),
// so this is hand-written in the same idiom: a `Querier` interface, a
// concrete `*Queries` backed by pgx, and `*Params` structs for
// multi-field writes — grounded on the `Queries`/`db.New(pool)` call
// sites throughout the teacher's `cmd/*/main.go` and `internal/server`.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so repository
// methods work unmodified inside or outside a transaction — mirroring
// the sqlc-generated DBTX interface the teacher's services depend on.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries is the concrete persistence layer, constructed once per
// process (and once per pgx.Tx, when a caller needs transactional
// scope) and passed down through service constructors the way the
// teacher threads its generated *db.Queries.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a *Queries bound to tx, so several statements can
// commit atomically. No caller in this module uses it: every service
// runs on the pool-backed *Queries, where each statement commits on its
// own.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// Pool is the pgxpool-backed root session factory. Each command owns
// exactly one and hands it to db.New. Workers and handlers never hold a
// connection of their own across an iteration or request: each
// statement checks a connection out of the pool and returns it.
type Pool struct {
	*pgxpool.Pool
}

func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConns = 20
	poolCfg.MinConns = 5
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	return &Pool{Pool: pool}, nil
}
