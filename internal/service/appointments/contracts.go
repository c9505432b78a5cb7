package appointments

import (
	"context"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/integrations/notifier"
)

// AppointmentRepository is the storage surface required by the service.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, reason *string) error
}

// Notifier dispatches fire-and-forget status events.
type Notifier interface {
	Dispatch(event notifier.Event)
}

// Logger is the logging surface required by the service.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
