package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type txKey struct{}

// TxBeginner starts transactions. *pgxpool.Pool and pgx.Tx (as a savepoint)
// both satisfy it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx attaches tx to ctx so DigestBackend queries join it. A nil tx leaves
// ctx as is.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction attached by WithTx, if any.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// InTx runs fn with a context carrying a new transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func InTx(ctx context.Context, db TxBeginner, fn func(ctx context.Context) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return errors.Join(ErrTxFailed, err)
	}

	if err := fn(WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, ErrTxFailed, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrTxFailed, err)
	}
	return nil
}

// queryer prefers the transaction carried by ctx over fallback.
func queryer(ctx context.Context, fallback DB) DB {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return fallback
}
