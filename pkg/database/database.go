package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UniqueViolation is the postgres error code for unique constraint failures.
const UniqueViolation = "23505"

type Database struct {
	p *pgxpool.Pool
}

// Open connects with NewPGX and wraps the pool.
func Open(ctx context.Context, opts Options) (*Database, error) {
	pool, err := NewPGX(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return NewDatabase(pool), nil
}

func NewDatabase(pool *pgxpool.Pool) *Database {
	return &Database{p: pool}
}

func (db *Database) Pool() *pgxpool.Pool {
	return db.p
}

func (db *Database) Close() {
	db.p.Close()
}

func (db *Database) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return db.conn(ctx).Exec(ctx, sql, arguments...)
}

func (db *Database) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return db.conn(ctx).Query(ctx, sql, args...)
}

func (db *Database) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return db.conn(ctx).QueryRow(ctx, sql, args...)
}

// IsUniqueViolation reports whether err comes from a violated unique constraint.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == UniqueViolation
}
