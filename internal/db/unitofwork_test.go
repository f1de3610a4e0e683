package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/jobshop/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func operatorExists(t *testing.T, database *sql.DB, id string) bool {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM operators WHERE id = ?`, id).Scan(&n))
	return n > 0
}

const insertOperator = `INSERT INTO operators (id, name, created_at) VALUES (?, ?, '2025-01-01T00:00:00Z')`

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, insertOperator, "op1", "Ana")
		return err
	})
	require.NoError(t, err)
	assert.True(t, operatorExists(t, database, "op1"), "row should exist after commit")
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openUoW(t)
	deliberate := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertOperator, "op2", "Ben"); err != nil {
			return err
		}
		return deliberate
	})
	require.ErrorIs(t, err, deliberate)
	assert.False(t, operatorExists(t, database, "op2"), "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, insertOperator, "op3", "Cleo")
			panic("boom")
		})
	})
	assert.False(t, operatorExists(t, database, "op3"), "row should not exist after panic rollback")
}

func TestWithinTx_ReportsRollbackFailureWithCause(t *testing.T) {
	_, uow := openUoW(t)
	deliberate := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		// Ending the tx early makes the deferred rollback fail.
		require.NoError(t, tx.(*sql.Tx).Commit())
		return deliberate
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, deliberate)
	assert.ErrorIs(t, err, sql.ErrTxDone)
	assert.Contains(t, err.Error(), "rolling back")
}

func TestWithinTx_CancelledContext(t *testing.T) {
	_, uow := openUoW(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}
