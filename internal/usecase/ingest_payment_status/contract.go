package ingest_payment_status

import (
	"context"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/integrations/notifier"
)

// TransactionRepository is the storage surface required by the use case.
type TransactionRepository interface {
	GetByRef(ctx context.Context, gatewayRef string) (*domain.Transaction, error)
	ApplyStatusIfPending(ctx context.Context, gatewayRef string, status domain.PaymentStatus) (*domain.Transaction, error)
}

// AppointmentRepository moves appointments in reaction to payment outcomes.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, reason *string) error
}

// CouponRepository increments coupon usage when a deposit-gated reservation
// confirms.
type CouponRepository interface {
	GetByCode(ctx context.Context, establishmentID int64, code string) (*domain.Coupon, error)
	IncrementUsage(ctx context.Context, id int64) error
}

// TxManager runs the transition and its side effects atomically.
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier dispatches fire-and-forget status events.
type Notifier interface {
	Dispatch(event notifier.Event)
}

// Logger is the logging surface required by the use case.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
