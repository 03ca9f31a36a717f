package db_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/alexanderramin/timesheet/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) (*db.SQLUnitOfWork, *sql.DB) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLUnitOfWork(database), database
}

const insertEntry = `INSERT INTO time_entries
	(id, user_id, work_date, start_min, end_min, created_at, updated_at)
	VALUES (?, 'kim', '2024-05-02', ?, ?, '2024-05-02T00:00:00Z', '2024-05-02T00:00:00Z')`

func countEntries(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM time_entries`).Scan(&n))
	return n
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, database := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, insertEntry, "e1", 540, 600)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countEntries(t, database))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, database := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertEntry, "e1", 540, 600); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertEntry, "e2", 600, 660); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")
	assert.Equal(t, 0, countEntries(t, database), "no partial batch after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, database := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, insertEntry, "e1", 540, 600)
			panic("boom")
		})
	})
	assert.Equal(t, 0, countEntries(t, database))
}

func TestWithinTx_CheckConstraintRejectsBackwardsEntry(t *testing.T) {
	uow, database := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, insertEntry, "e1", 600, 540)
		return err
	})
	require.Error(t, err)
	assert.Equal(t, 0, countEntries(t, database))
}
