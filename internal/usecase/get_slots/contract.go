package get_slots

import (
	"context"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
)

// AppointmentRepository is the storage surface required by the use case.
type AppointmentRepository interface {
	// SlotCounts returns non-cancelled appointment counts grouped by exact
	// slot instant (UTC) for the given period.
	SlotCounts(ctx context.Context, establishmentID int64, from, to time.Time) (map[time.Time]int, error)
}

// SettingsClient fetches read-only establishment snapshots.
type SettingsClient interface {
	GetEstablishment(ctx context.Context, establishmentID int64) (*domain.Establishment, error)
	GetService(ctx context.Context, establishmentID, serviceID int64) (*domain.Service, error)
	GetCalendarBlocks(ctx context.Context, establishmentID int64, from, to time.Time) (domain.CalendarBlocks, error)
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
