package get_slots

import (
	"fmt"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
)

// validateRequest checks the request shape.
func validateRequest(req *Request) error {
	if req.EstablishmentID <= 0 {
		return fmt.Errorf("%w: establishmentID must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// validateDateInWindow rejects dates beyond the latest booking offset. Past
// dates are not rejected here; they classify as past and return no slots.
func validateDateInWindow(est *domain.Establishment, date, now time.Time) error {
	_, latest, latestSet := domain.BookingWindow(est, now)
	if !latestSet {
		return nil
	}

	loc := est.Location()
	if domain.DateOnly(date, loc).After(domain.DateOnly(latest, loc)) {
		return fmt.Errorf("%w: bookings accepted until %s", ErrDateOutsideWindow, latest.Format(domain.DateFormat))
	}
	return nil
}
