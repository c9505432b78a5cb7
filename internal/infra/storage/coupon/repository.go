package coupon

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/pkg/dbmetrics"
	"github.com/agendafacil/booking-service/pkg/psqlbuilder"
)

const tableName = "coupons"

// DBExecutor is the database surface required by the repository.
type DBExecutor = dbmetrics.DBExecutor

// Repository persists coupons.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a coupon repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCode fetches a coupon by its code within an establishment. Codes are
// matched case-insensitively.
func (r *Repository) GetByCode(ctx context.Context, establishmentID int64, code string) (*domain.Coupon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"establishment_id",
		"code",
		"discount_type",
		"value",
		"valid_from",
		"valid_until",
		"usage_limit",
		"used_count",
		"active",
		"created_at",
		"updated_at",
	).
		From(tableName).
		Where(squirrel.Eq{"establishment_id": establishmentID}).
		Where(squirrel.Expr("LOWER(code) = ?", strings.ToLower(code))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Coupon
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.EstablishmentID,
		&c.Code,
		&c.DiscountType,
		&c.Value,
		&c.ValidFrom,
		&c.ValidUntil,
		&c.UsageLimit,
		&c.UsedCount,
		&c.Active,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - scan coupon: %w", ErrScanRow, err)
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time
	return &c, nil
}

// IncrementUsage bumps used_count by one, conditionally: the update only
// applies while used_count is still below the usage limit, so concurrent
// redemptions can never push a coupon past its limit.
func (r *Repository) IncrementUsage(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("used_count", squirrel.Expr("used_count + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("(usage_limit IS NULL OR used_count < usage_limit)")).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - execute update: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrUsageLimitReached
	}
	return nil
}
