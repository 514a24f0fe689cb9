package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// serializationFailure is SQLSTATE 40001
const serializationFailure = "40001"

const maxSerializableAttempts = 3

// RunSerializable runs fn inside a SERIALIZABLE transaction and commits it.
// Any error returned by fn rolls the transaction back and is returned as is.
// Serialization failures are retried a bounded number of times.
func RunSerializable(ctx context.Context, db PgxIface, fn func(tx DBTX) error) error {
	var err error
	for attempt := 1; attempt <= maxSerializableAttempts; attempt++ {
		err = runOnce(ctx, db, fn)
		if err == nil || !IsSerializationFailure(err) {
			return err
		}
	}
	return fmt.Errorf("serializable transaction gave up after %d attempts: %w", maxSerializableAttempts, err)
}

func runOnce(ctx context.Context, db PgxIface, fn func(tx DBTX) error) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback after Commit is a no-op
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == serializationFailure
}
