package settingsservice

import "errors"

var (
	// ErrEstablishmentNotFound is returned when the establishment does not exist.
	ErrEstablishmentNotFound = errors.New("settingsservice: establishment not found")

	// ErrServiceNotFound is returned when the service does not exist or does
	// not belong to the establishment.
	ErrServiceNotFound = errors.New("settingsservice: service not found")

	// ErrInvalidResponse is returned when the provider answers with an
	// unexpected status code or an unparsable body.
	ErrInvalidResponse = errors.New("settingsservice: invalid response")

	// ErrInternal is returned for transport-level failures.
	ErrInternal = errors.New("settingsservice: internal error")
)
