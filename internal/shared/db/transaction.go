// Package db provides database utilities including transaction management.
package db

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	apperrors "github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

// ErrConcurrentModification is returned by repositories when a versioned
// update matched no row because another writer committed first.
var ErrConcurrentModification = errors.New("concurrent modification")

// MySQL server error numbers that abort a transaction which may succeed
// when run again.
const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// IsRetryable reports whether a transaction that failed with err can be
// re-run from the start: a lost version check, a deadlock, or a lock wait
// that timed out.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrConcurrentModification) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDeadlock || myErr.Number == mysqlLockWaitTimeout
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}
	return false
}

const (
	defaultMaxAttempts = 5
	defaultBackoff     = 20 * time.Millisecond
)

// txKey is the context key for storing transaction.
type txKey struct{}

// TransactionManager manages database transactions.
type TransactionManager struct {
	db          *gorm.DB
	maxAttempts int
	backoff     time.Duration
	logger      logger.Interface
}

// Option configures a TransactionManager.
type Option func(*TransactionManager)

// WithRetryPolicy sets the attempt ceiling and the linear backoff step.
func WithRetryPolicy(maxAttempts int, backoff time.Duration) Option {
	return func(tm *TransactionManager) {
		if maxAttempts > 0 {
			tm.maxAttempts = maxAttempts
		}
		if backoff >= 0 {
			tm.backoff = backoff
		}
	}
}

func WithLogger(log logger.Interface) Option {
	return func(tm *TransactionManager) {
		tm.logger = log
	}
}

// NewTransactionManager creates a new TransactionManager.
func NewTransactionManager(db *gorm.DB, opts ...Option) *TransactionManager {
	tm := &TransactionManager{
		db:          db,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
		logger:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// RunInTransaction executes the given function within a database transaction.
// If the function returns an error, the transaction will be rolled back.
// If the function completes successfully, the transaction will be committed.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// RunInTransactionWithRetry runs fn in a fresh transaction and re-runs it
// from the start whenever it fails with a retryable error. fn must
// re-read everything it depends on, since nothing from a failed attempt is
// kept. Exhausting the attempts yields a Conflict error.
func (tm *TransactionManager) RunInTransactionWithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= tm.maxAttempts; attempt++ {
		lastErr = tm.RunInTransaction(ctx, fn)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}

		tm.logger.Debugw("transaction conflict, retrying",
			"error", lastErr,
			"attempt", attempt,
			"max_attempts", tm.maxAttempts,
		)

		if attempt == tm.maxAttempts {
			break
		}

		wait := tm.backoff * time.Duration(attempt)
		if wait <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	tm.logger.Warnw("transaction retries exhausted", "max_attempts", tm.maxAttempts)
	return apperrors.NewConflictError("concurrent update, please retry").WithCause(lastErr)
}

// GetTx returns the transaction from context if available, otherwise returns the default DB.
func (tm *TransactionManager) GetTx(ctx context.Context) *gorm.DB {
	return GetTxFromContext(ctx, tm.db)
}

// DB returns the underlying connection.
func (tm *TransactionManager) DB() *gorm.DB {
	return tm.db
}

// GetTxFromContext returns the transaction from context if available.
// This is a standalone function for use in repositories.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}
