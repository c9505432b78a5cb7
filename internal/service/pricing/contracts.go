package pricing

import (
	"context"

	"github.com/agendafacil/booking-service/internal/domain"
)

// CouponRepository is the storage surface required by the validator.
type CouponRepository interface {
	GetByCode(ctx context.Context, establishmentID int64, code string) (*domain.Coupon, error)
}

// Logger is the logging surface required by the service.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
