package get_availability

import "errors"

var (
	ErrEstablishmentNotFound = errors.New("establishment not found")
	ErrServiceNotFound       = errors.New("service not found")
	ErrServiceInactive       = errors.New("service is inactive")
	ErrInvalidRange          = errors.New("invalid date range")
	ErrInvalidInput          = errors.New("invalid input data")
	ErrInternal              = errors.New("internal error")
)
