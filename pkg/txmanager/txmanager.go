package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/agendafacil/booking-service/pkg/dbmetrics"
)

const (
	// maxRetries bounds how often a serializable transaction is retried
	// after a serialization failure before the error is surfaced.
	maxRetries = 3

	retryBaseDelay = 10 * time.Millisecond
)

// ErrTxFailed is returned when a transaction cannot be completed.
var ErrTxFailed = errors.New("txmanager: transaction failed")

// TransactionManager runs functions inside instrumented database
// transactions. The open transaction travels in the context, so repositories
// join it through dbmetrics.GetExecutor without knowing about transactions.
type TransactionManager struct {
	db *dbmetrics.DB
}

// NewTransactionManager creates a manager on top of an instrumented DB.
func NewTransactionManager(db *dbmetrics.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable executes fn inside a SERIALIZABLE transaction. Serialization
// failures (SQLSTATE 40001) and deadlocks (40P01) are retried up to
// maxRetries times; any other error from fn aborts and is returned as-is so
// business sentinels survive for errors.Is checks.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBaseDelay << uint(attempt-1)):
			}
		}

		err := m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !IsSerializationFailure(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("%w: retries exhausted: %v", ErrTxFailed, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTxFailed, err)
	}

	txCtx := dbmetrics.WithExecutor(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		// Serializable conflicts surface at COMMIT as often as inside the
		// transaction; keep the pq error in the chain so the retry loop
		// can recognize them.
		return fmt.Errorf("%w: commit: %w", ErrTxFailed, err)
	}
	return nil
}

// IsSerializationFailure reports whether err is a postgres serialization
// failure or deadlock, both of which are safe to retry.
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
