package get_slots

import "errors"

var (
	// ErrEstablishmentNotFound is returned when the establishment does not exist.
	ErrEstablishmentNotFound = errors.New("get_slots: establishment not found")

	// ErrServiceNotFound is returned when the service does not exist.
	ErrServiceNotFound = errors.New("get_slots: service not found")

	// ErrServiceInactive is returned when the service is inactive or belongs
	// to another establishment.
	ErrServiceInactive = errors.New("get_slots: service is not active")

	// ErrDateOutsideWindow is returned when the date falls outside the
	// establishment's booking window.
	ErrDateOutsideWindow = errors.New("get_slots: date is outside the booking window")

	// ErrInvalidInput is returned on malformed input.
	ErrInvalidInput = errors.New("get_slots: invalid input data")

	// ErrInternal is returned on collaborator failures.
	ErrInternal = errors.New("get_slots: internal error")
)
