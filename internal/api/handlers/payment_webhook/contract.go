package payment_webhook

import (
	"context"

	ingestPaymentStatus "github.com/agendafacil/booking-service/internal/usecase/ingest_payment_status"
)

type IngestPaymentStatusUseCase interface {
	Execute(ctx context.Context, req *ingestPaymentStatus.Request) (*ingestPaymentStatus.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
