package simpletxmanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/agendafacil/booking-service/pkg/dbmetrics"
	"github.com/agendafacil/booking-service/pkg/txmanager"
)

const (
	maxRetries     = 3
	retryBaseDelay = 10 * time.Millisecond
)

// TransactionManager is the uninstrumented counterpart of
// txmanager.TransactionManager, used when metrics are disabled. Semantics are
// identical: SERIALIZABLE isolation, the transaction in the context, bounded
// retry on serialization failures.
type TransactionManager struct {
	db *sql.DB
}

// NewTransactionManager creates a manager on top of a plain *sql.DB.
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable executes fn inside a SERIALIZABLE transaction, retrying on
// serialization failures.
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
		if !txmanager.IsSerializationFailure(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("%w: retries exhausted: %v", txmanager.ErrTxFailed, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", txmanager.ErrTxFailed, err)
	}

	txCtx := dbmetrics.WithExecutor(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		// Same as txmanager: commit-time serialization failures must stay
		// recognizable to the retry loop.
		return fmt.Errorf("%w: commit: %w", txmanager.ErrTxFailed, err)
	}
	return nil
}
