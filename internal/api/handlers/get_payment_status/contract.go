package get_payment_status

import (
	"context"

	getPaymentStatus "github.com/agendafacil/booking-service/internal/usecase/get_payment_status"
)

type GetPaymentStatusUseCase interface {
	Execute(ctx context.Context, req *getPaymentStatus.Request) (*getPaymentStatus.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
