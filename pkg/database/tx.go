package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/evgeniy-krivenko/notes-collab/pkg/logger/slogx"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RunInTx runs f inside a transaction carried by ctx. A call nested in another
// RunInTx joins the outer transaction, which alone commits or rolls back.
func (db *Database) RunInTx(ctx context.Context, f func(context.Context) error) error {
	if TxFromContext(ctx) != nil {
		return f(ctx)
	}

	tx, err := db.p.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	ctx = NewTxContext(ctx, tx)

	defer func() {
		if v := recover(); v != nil {
			if rerr := tx.Rollback(ctx); rerr != nil {
				slogx.Error(ctx, "rollback after panic", slogx.Err(rerr))
			}
			panic(v)
		}
	}()

	if err := f(ctx); err != nil {
		if rerr := tx.Rollback(ctx); rerr != nil {
			err = fmt.Errorf("%w: rolling back transaction: %v", err, rerr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txCtxKey struct{}

func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txCtxKey{}).(pgx.Tx)
	return tx
}

func NewTxContext(parent context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(parent, txCtxKey{}, tx)
}

// conn picks the transaction in ctx, if any, over the pool.
func (db *Database) conn(ctx context.Context) querier {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return db.p
}
