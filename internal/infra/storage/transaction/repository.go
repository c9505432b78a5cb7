package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/pkg/dbmetrics"
	"github.com/agendafacil/booking-service/pkg/psqlbuilder"
)

const tableName = "transactions"

var columns = []string{
	"id",
	"appointment_id",
	"gateway_ref",
	"idempotency_key",
	"amount",
	"qr_payload",
	"payment_status",
	"expires_at",
	"created_at",
	"updated_at",
}

// DBExecutor is the database surface required by the repository.
type DBExecutor = dbmetrics.DBExecutor

// Repository persists deposit transactions. Terminal transitions go through
// ApplyStatusIfPending, whose WHERE clause on the current status is the
// idempotency guarantee for racing webhook and poll deliveries.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a transaction repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts a new transaction.
func (r *Repository) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"appointment_id",
			"gateway_ref",
			"idempotency_key",
			"amount",
			"qr_payload",
			"payment_status",
			"expires_at",
		).
		Values(
			tx.AppointmentID,
			tx.GatewayRef,
			tx.IdempotencyKey,
			tx.Amount,
			tx.QRPayload,
			tx.PaymentStatus,
			tx.ExpiresAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tx.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: Create - gateway_ref %s", ErrDuplicateTransaction, tx.GatewayRef)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	tx.CreatedAt = createdAt.Time
	tx.UpdatedAt = updatedAt.Time
	return tx, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// GetByRef fetches a transaction by its gateway reference.
func (r *Repository) GetByRef(ctx context.Context, gatewayRef string) (*domain.Transaction, error) {
	return r.getOne(ctx, squirrel.Eq{"gateway_ref": gatewayRef})
}

// GetActiveByAppointmentID fetches the non-terminal transaction of an
// appointment, if any. At most one exists while the deposit is unresolved.
func (r *Repository) GetActiveByAppointmentID(ctx context.Context, appointmentID int64) (*domain.Transaction, error) {
	return r.getOne(ctx, squirrel.And{
		squirrel.Eq{"appointment_id": appointmentID},
		squirrel.NotEq{"payment_status": domain.TerminalPaymentStatuses},
	})
}

func (r *Repository) getOne(ctx context.Context, where interface{}) (*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(where).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	tx, err := scanTransaction(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan transaction: %w", ErrScanRow, err)
	}
	return tx, nil
}

// ApplyStatusIfPending transitions the transaction to the given status only
// when the current status is still non-terminal. Returns ErrAlreadyTerminal
// when the row exists but a terminal status was applied first; callers use
// that to suppress duplicate side effects.
func (r *Repository) ApplyStatusIfPending(ctx context.Context, gatewayRef string, status domain.PaymentStatus) (*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"gateway_ref": gatewayRef}).
		Where(squirrel.NotEq{"payment_status": domain.TerminalPaymentStatuses}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ApplyStatusIfPending - build update query: %v", ErrBuildQuery, err)
	}

	tx, err := scanTransaction(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		// Either the ref is unknown or another delivery won the race.
		if _, getErr := r.GetByRef(ctx, gatewayRef); getErr != nil {
			return nil, getErr
		}
		return nil, ErrAlreadyTerminal
	}
	if err != nil {
		return nil, fmt.Errorf("%w: ApplyStatusIfPending - scan transaction: %w", ErrScanRow, err)
	}
	return tx, nil
}

// ListExpired returns non-terminal transactions whose expiry window has
// passed, oldest first, bounded by limit. The sweep cancels them.
func (r *Repository) ListExpired(ctx context.Context, now time.Time, limit uint64) ([]*domain.Transaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.NotEq{"payment_status": domain.TerminalPaymentStatuses}).
		Where(squirrel.Lt{"expires_at": now}).
		OrderBy("expires_at ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpired - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpired - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	var result []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransactionRows(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListExpired - scan row: %w", ErrScanRow, err)
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListExpired - iterate rows: %w", ErrExecQuery, err)
	}
	return result, nil
}

func joinColumns() string {
	out := columns[0]
	for _, c := range columns[1:] {
		out += ", " + c
	}
	return out
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row *sql.Row) (*domain.Transaction, error) {
	return scanInto(row)
}

func scanTransactionRows(rows *sql.Rows) (*domain.Transaction, error) {
	return scanInto(rows)
}

func scanInto(s scannable) (*domain.Transaction, error) {
	var tx domain.Transaction
	var createdAt, updatedAt sql.NullTime

	err := s.Scan(
		&tx.ID,
		&tx.AppointmentID,
		&tx.GatewayRef,
		&tx.IdempotencyKey,
		&tx.Amount,
		&tx.QRPayload,
		&tx.PaymentStatus,
		&tx.ExpiresAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.ExpiresAt = tx.ExpiresAt.UTC()
	tx.CreatedAt = createdAt.Time
	tx.UpdatedAt = updatedAt.Time
	return &tx, nil
}
