package expire_transactions

import (
	"context"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/usecase/ingest_payment_status"
)

// TransactionRepository is the storage surface required by the sweeper.
type TransactionRepository interface {
	ListExpired(ctx context.Context, now time.Time, limit uint64) ([]*domain.Transaction, error)
}

// StatusIngester applies the expiry through the shared gated transition.
type StatusIngester interface {
	Execute(ctx context.Context, req *ingest_payment_status.Request) (*ingest_payment_status.Response, error)
}

// TimeProvider supplies the current time (injectable for tests).
type TimeProvider interface {
	Now() time.Time
}

// Logger is the logging surface required by the sweeper.
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
