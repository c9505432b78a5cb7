package get_payment_status

import (
	"context"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/usecase/ingest_payment_status"
)

// TransactionRepository is the storage surface required by the use case.
type TransactionRepository interface {
	GetByRef(ctx context.Context, gatewayRef string) (*domain.Transaction, error)
}

// PaymentGateway polls charge status.
type PaymentGateway interface {
	GetStatus(ctx context.Context, ref string) (domain.PaymentStatus, error)
}

// StatusIngester funnels a polled terminal answer through the same gated
// transition the webhook uses.
type StatusIngester interface {
	Execute(ctx context.Context, req *ingest_payment_status.Request) (*ingest_payment_status.Response, error)
}

// Logger is the logging surface required by the use case.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
