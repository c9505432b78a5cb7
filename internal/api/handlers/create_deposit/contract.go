package create_deposit

import (
	"context"

	createDeposit "github.com/agendafacil/booking-service/internal/usecase/create_deposit"
)

type CreateDepositUseCase interface {
	Execute(ctx context.Context, req *createDeposit.Request) (*createDeposit.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
