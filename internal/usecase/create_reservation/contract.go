package create_reservation

import (
	"context"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/integrations/notifier"
	"github.com/agendafacil/booking-service/internal/service/pricing"
)

// AppointmentRepository is the storage surface required by the use case.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	CountActiveAtSlot(ctx context.Context, establishmentID int64, scheduledAt time.Time) (int, error)
}

// CouponRepository increments coupon usage once a reservation that carries a
// coupon reaches confirmed.
type CouponRepository interface {
	IncrementUsage(ctx context.Context, id int64) error
}

// PricingService computes the server-side quote.
type PricingService interface {
	Quote(ctx context.Context, est *domain.Establishment, svc *domain.Service, couponCode string, now time.Time) (*pricing.Quote, error)
}

// SettingsClient fetches read-only establishment snapshots.
type SettingsClient interface {
	GetEstablishment(ctx context.Context, establishmentID int64) (*domain.Establishment, error)
	GetService(ctx context.Context, establishmentID, serviceID int64) (*domain.Service, error)
	GetCalendarBlocks(ctx context.Context, establishmentID int64, from, to time.Time) (domain.CalendarBlocks, error)
}

// TxManager runs the reservation critical section.
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier dispatches fire-and-forget status events.
type Notifier interface {
	Dispatch(event notifier.Event)
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
