package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/pkg/dbmetrics"
	"github.com/agendafacil/booking-service/pkg/psqlbuilder"
)

const tableName = "appointments"

var columns = []string{
	"id",
	"establishment_id",
	"service_id",
	"customer_name",
	"customer_phone",
	"scheduled_at",
	"service_name",
	"duration_minutes",
	"price",
	"discount_amount",
	"discount_code",
	"final_price",
	"status",
	"cancellation_reason",
	"created_at",
	"updated_at",
}

// Repository persists appointments. When the context carries an open
// transaction (via dbmetrics), all queries join it; the reservation flow
// relies on this to re-count capacity and insert inside one SERIALIZABLE
// transaction.
type Repository struct {
	db DBExecutor
}

// NewRepository creates an appointment repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts a new appointment and fills in the generated fields.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"establishment_id",
			"service_id",
			"customer_name",
			"customer_phone",
			"scheduled_at",
			"service_name",
			"duration_minutes",
			"price",
			"discount_amount",
			"discount_code",
			"final_price",
			"status",
		).
		Values(
			appt.EstablishmentID,
			appt.ServiceID,
			appt.CustomerName,
			appt.CustomerPhone,
			appt.ScheduledAt,
			appt.ServiceName,
			appt.DurationMinutes,
			appt.Price,
			appt.DiscountAmount,
			appt.DiscountCode,
			appt.FinalPrice,
			appt.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID fetches an appointment by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}
	return appt, nil
}

// CountActiveAtSlot counts non-cancelled appointments at the exact slot
// instant. Called inside the reservation transaction to enforce the capacity
// invariant.
func (r *Repository) CountActiveAtSlot(ctx context.Context, establishmentID int64, scheduledAt time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{
			"establishment_id": establishmentID,
			"scheduled_at":     scheduledAt,
			"status":           domain.ActiveStatuses,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveAtSlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveAtSlot - scan count: %w", ErrScanRow, err)
	}
	return count, nil
}

// SlotCounts returns, for the [from, to) instant range, the number of
// non-cancelled appointments grouped by exact slot start. One query serves a
// whole day (or range) of availability computation.
func (r *Repository) SlotCounts(ctx context.Context, establishmentID int64, from, to time.Time) (map[time.Time]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("scheduled_at", "COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{
			"establishment_id": establishmentID,
			"status":           domain.ActiveStatuses,
		}).
		Where(squirrel.GtOrEq{"scheduled_at": from}).
		Where(squirrel.Lt{"scheduled_at": to}).
		GroupBy("scheduled_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: SlotCounts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: SlotCounts - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[time.Time]int)
	for rows.Next() {
		var at time.Time
		var count int
		if err := rows.Scan(&at, &count); err != nil {
			return nil, fmt.Errorf("%w: SlotCounts - scan row: %w", ErrScanRow, err)
		}
		counts[at.UTC()] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: SlotCounts - iterate rows: %w", ErrExecQuery, err)
	}

	return counts, nil
}

// UpdateStatus sets the appointment status and, optionally, the cancellation
// reason.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update(tableName).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})
	if reason != nil {
		builder = builder.Set("cancellation_reason", *reason)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func scanAppointment(row *sql.Row) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.EstablishmentID,
		&appt.ServiceID,
		&appt.CustomerName,
		&appt.CustomerPhone,
		&appt.ScheduledAt,
		&appt.ServiceName,
		&appt.DurationMinutes,
		&appt.Price,
		&appt.DiscountAmount,
		&appt.DiscountCode,
		&appt.FinalPrice,
		&appt.Status,
		&appt.CancellationReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.ScheduledAt = appt.ScheduledAt.UTC()
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time
	return &appt, nil
}
