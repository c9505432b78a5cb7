package pixgateway

import "errors"

var (
	// ErrChargeNotFound is returned when the gateway does not know the charge.
	ErrChargeNotFound = errors.New("pixgateway: charge not found")

	// ErrGatewayUnavailable is returned when the gateway cannot be reached
	// after the bounded retry attempts.
	ErrGatewayUnavailable = errors.New("pixgateway: gateway unavailable")

	// ErrChargeRejected is returned when the gateway refuses to create the
	// charge (a non-retryable client error).
	ErrChargeRejected = errors.New("pixgateway: charge request rejected")

	// ErrInvalidResponse is returned on unparsable or unexpected responses.
	ErrInvalidResponse = errors.New("pixgateway: invalid response")

	// ErrInternal is returned for request construction failures.
	ErrInternal = errors.New("pixgateway: internal error")
)
