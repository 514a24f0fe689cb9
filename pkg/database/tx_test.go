package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx implements the parts of pgx.Tx that RunSerializable touches.
type fakeTx struct {
	pgx.Tx
	db *fakeDB
}

func (t *fakeTx) Commit(context.Context) error {
	t.db.commits++
	return t.db.commitErr
}

func (t *fakeTx) Rollback(context.Context) error {
	t.db.rollbacks++
	return nil
}

type fakeDB struct {
	PgxIface
	begins    int
	commits   int
	rollbacks int
	isoLevels []pgx.TxIsoLevel
	commitErr error
}

func (db *fakeDB) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	db.begins++
	db.isoLevels = append(db.isoLevels, opts.IsoLevel)
	return &fakeTx{db: db}, nil
}

func serializationErr() error {
	return fmt.Errorf("lock employee: %w", &pgconn.PgError{Code: "40001"})
}

func TestRunSerializable_Commits(t *testing.T) {
	db := &fakeDB{}

	err := RunSerializable(context.Background(), db, func(tx DBTX) error { return nil })

	require.NoError(t, err)
	assert.Equal(t, 1, db.begins)
	assert.Equal(t, 1, db.commits)
	assert.Equal(t, []pgx.TxIsoLevel{pgx.Serializable}, db.isoLevels)
}

func TestRunSerializable_ReturnsFnErrorWithoutRetry(t *testing.T) {
	db := &fakeDB{}
	sentinel := errors.New("code expired")

	err := RunSerializable(context.Background(), db, func(tx DBTX) error { return sentinel })

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, db.begins)
	assert.Equal(t, 0, db.commits)
	assert.Equal(t, 1, db.rollbacks)
}

func TestRunSerializable_RetriesSerializationFailures(t *testing.T) {
	db := &fakeDB{}
	calls := 0

	err := RunSerializable(context.Background(), db, func(tx DBTX) error {
		calls++
		if calls < 3 {
			return serializationErr()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 1, db.commits)
}

func TestRunSerializable_GivesUp(t *testing.T) {
	db := &fakeDB{}

	err := RunSerializable(context.Background(), db, func(tx DBTX) error { return serializationErr() })

	require.Error(t, err)
	assert.True(t, IsSerializationFailure(err))
	assert.Equal(t, maxSerializableAttempts, db.begins)
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(serializationErr()))
	assert.False(t, IsSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsSerializationFailure(errors.New("boom")))
	assert.False(t, IsSerializationFailure(nil))
}
