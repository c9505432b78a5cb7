package appointments

import "errors"

var (
	// ErrAppointmentNotFound is returned when the appointment does not exist.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrCannotCancel is returned when the appointment is already terminal or
	// in progress.
	ErrCannotCancel = errors.New("appointment cannot be cancelled")

	// ErrInvalidInput is returned on malformed input.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal is returned on repository failures.
	ErrInternal = errors.New("service: internal error")
)
