package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "github.com/schoolit/servicedesk/internal/shared/errors"
)

type counterRow struct {
	ID    string `gorm:"primaryKey"`
	Value int
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(&counterRow{}))
	return gdb
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTransactionManager(gdb)
	boom := errors.New("boom")

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		require.NoError(t, tm.GetTx(ctx).Create(&counterRow{ID: "a", Value: 1}).Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, gdb.Model(&counterRow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRunInTransaction_RepositoriesShareTx(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		if err := GetTxFromContext(ctx, gdb).Create(&counterRow{ID: "a", Value: 1}).Error; err != nil {
			return err
		}
		var row counterRow
		return GetTxFromContext(ctx, gdb).First(&row, "id = ?", "a").Error
	})
	assert.NoError(t, err)
}

func TestRunInTransactionWithRetry(t *testing.T) {
	t.Run("retries conflicts until success", func(t *testing.T) {
		tm := NewTransactionManager(setupTestDB(t), WithRetryPolicy(5, 0))
		calls := 0

		err := tm.RunInTransactionWithRetry(context.Background(), func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return fmt.Errorf("row changed: %w", ErrConcurrentModification)
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausted retries become a conflict", func(t *testing.T) {
		tm := NewTransactionManager(setupTestDB(t), WithRetryPolicy(3, 0))
		calls := 0

		err := tm.RunInTransactionWithRetry(context.Background(), func(ctx context.Context) error {
			calls++
			return ErrConcurrentModification
		})

		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.True(t, apperrors.IsConflictError(err))
		assert.ErrorIs(t, err, ErrConcurrentModification)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		tm := NewTransactionManager(setupTestDB(t), WithRetryPolicy(5, 0))
		calls := 0
		boom := errors.New("boom")

		err := tm.RunInTransactionWithRetry(context.Background(), func(ctx context.Context) error {
			calls++
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("deadlock is retried", func(t *testing.T) {
		tm := NewTransactionManager(setupTestDB(t), WithRetryPolicy(5, 0))
		calls := 0

		err := tm.RunInTransactionWithRetry(context.Background(), func(ctx context.Context) error {
			calls++
			if calls == 1 {
				return fmt.Errorf("update stock: %w", &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"})
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("repeated lock wait timeout becomes a conflict", func(t *testing.T) {
		tm := NewTransactionManager(setupTestDB(t), WithRetryPolicy(3, 0))
		calls := 0

		err := tm.RunInTransactionWithRetry(context.Background(), func(ctx context.Context) error {
			calls++
			return &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
		})

		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.True(t, apperrors.IsConflictError(err))
	})

	t.Run("other mysql errors are not retried", func(t *testing.T) {
		tm := NewTransactionManager(setupTestDB(t), WithRetryPolicy(5, 0))
		calls := 0

		err := tm.RunInTransactionWithRetry(context.Background(), func(ctx context.Context) error {
			calls++
			return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.False(t, apperrors.IsConflictError(err))
	})

	t.Run("cancelled context stops the backoff", func(t *testing.T) {
		tm := NewTransactionManager(setupTestDB(t), WithRetryPolicy(5, time.Hour))
		ctx, cancel := context.WithCancel(context.Background())

		err := tm.RunInTransactionWithRetry(ctx, func(ctx context.Context) error {
			cancel()
			return ErrConcurrentModification
		})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("wrap: %w", ErrConcurrentModification)))
	assert.True(t, IsRetryable(&mysql.MySQLError{Number: 1213}))
	assert.True(t, IsRetryable(&mysql.MySQLError{Number: 1205}))
	assert.True(t, IsRetryable(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.True(t, IsRetryable(sqlite3.Error{Code: sqlite3.ErrLocked}))
	assert.False(t, IsRetryable(&mysql.MySQLError{Number: 1452}))
	assert.False(t, IsRetryable(sqlite3.Error{Code: sqlite3.ErrConstraint}))
	assert.False(t, IsRetryable(errors.New("boom")))
	assert.False(t, IsRetryable(nil))
}
