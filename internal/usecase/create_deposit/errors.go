package create_deposit

import "errors"

var (
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrAppointmentNotPending = errors.New("appointment is not awaiting a deposit")
	ErrDepositNotRequired    = errors.New("establishment does not require a deposit")
	ErrEstablishmentNotFound = errors.New("establishment not found")
	ErrPaymentGateway        = errors.New("payment gateway error")
	ErrInvalidInput          = errors.New("invalid input data")
	ErrInternal              = errors.New("internal error")
)
