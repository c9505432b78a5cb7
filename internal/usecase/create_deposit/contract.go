package create_deposit

import (
	"context"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/integrations/pixgateway"
)

// AppointmentRepository is the storage surface required by the use case.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
}

// TransactionRepository persists deposit transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	GetActiveByAppointmentID(ctx context.Context, appointmentID int64) (*domain.Transaction, error)
}

// SettingsClient fetches read-only establishment snapshots.
type SettingsClient interface {
	GetEstablishment(ctx context.Context, establishmentID int64) (*domain.Establishment, error)
}

// PaymentGateway issues PIX charges.
type PaymentGateway interface {
	CreateCharge(ctx context.Context, req pixgateway.ChargeRequest) (*pixgateway.Charge, error)
}

// TimeProvider supplies the current time (injectable for tests).
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging surface required by the use case.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider is the production clock.
type RealTimeProvider struct{}

// Now returns the current time.
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
