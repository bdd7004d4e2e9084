package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitOnSuccess(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	uow := NewSQLiteUnitOfWork(database)
	ctx := context.Background()

	err = uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO quotations (id, project_description, created_at, updated_at)
			 VALUES ('quot-tx1', 'desc', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM quotations`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUnitOfWork_RollbackOnError(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	uow := NewSQLiteUnitOfWork(database)
	ctx := context.Background()
	boom := errors.New("boom")

	err = uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		_, execErr := tx.ExecContext(ctx,
			`INSERT INTO quotations (id, project_description, created_at, updated_at)
			 VALUES ('quot-tx2', 'desc', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
		require.NoError(t, execErr)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM quotations`).Scan(&count))
	assert.Equal(t, 0, count, "insert should have been rolled back")
}
