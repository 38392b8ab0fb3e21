// internal/repository/postgres/db.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is what repositories run statements on: a pooled connection or a
// transaction begun on one.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Conn is a single dedicated connection, such as a *pgx.Conn.
type Conn interface {
	Querier
	Ping(ctx context.Context) error
}

type DB struct {
	acquire func(ctx context.Context) (Querier, func(), error)
	ping    func(ctx context.Context) error
}

func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{
		acquire: func(ctx context.Context) (Querier, func(), error) {
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return nil, nil, err
			}
			return conn, conn.Release, nil
		},
		ping: pool.Ping,
	}
}

// NewConnDB runs every statement on conn. The caller owns conn and closes it.
func NewConnDB(conn Conn) *DB {
	return &DB{
		acquire: func(context.Context) (Querier, func(), error) {
			return conn, func() {}, nil
		},
		ping: conn.Ping,
	}
}

// WithConn runs fn on one pooled connection and always hands it back,
// whatever fn returns. Statements that belong together (a page and its
// count, the report aggregates) go through a single call.
func (d *DB) WithConn(ctx context.Context, fn func(q Querier) error) error {
	conn, release, err := d.acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer release()

	return fn(conn)
}

// WithTx runs fn in a transaction on one connection. fn's error rolls back.
func (d *DB) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return d.WithConn(ctx, func(q Querier) error {
		tx, err := q.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := fn(tx); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
}

// Ping checks that the store answers.
func (d *DB) Ping(ctx context.Context) error {
	return d.ping(ctx)
}

// countRows runs a single COUNT(*) statement on q.
func countRows(ctx context.Context, q Querier, query string, args []any) (int64, error) {
	var total int64
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return total, nil
}
