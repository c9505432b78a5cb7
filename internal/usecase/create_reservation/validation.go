package create_reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/pkg/types"
)

// validateRequest checks the request shape.
func validateRequest(req *Request) error {
	if req.EstablishmentID <= 0 {
		return fmt.Errorf("%w: establishmentID must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customerPhone is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.StartTime == "" {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	return nil
}

// validateSlotPlacement checks the requested instant against the booking
// window and the schedule alignment. Returns the anchored slot instant.
func validateSlotPlacement(est *domain.Establishment, req *Request, now time.Time) (time.Time, error) {
	instant, err := domain.SlotInstant(est, req.Date, req.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}

	earliest, latest, latestSet := domain.BookingWindow(est, now)
	if instant.Before(earliest) && instant.After(now) {
		return time.Time{}, fmt.Errorf("%w: bookings open from %s", ErrDateOutsideWindow, earliest.Format(time.RFC3339))
	}
	if latestSet && instant.After(latest) {
		return time.Time{}, fmt.Errorf("%w: bookings accepted until %s", ErrDateOutsideWindow, latest.Format(domain.DateFormat))
	}

	aligned, err := slotAligned(est, req.Date, req.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: failed to enumerate slots: %v", ErrInternal, err)
	}
	if !aligned {
		return time.Time{}, fmt.Errorf("%w: %s does not start a slot", ErrSlotMisaligned, req.StartTime)
	}

	return instant, nil
}

func slotAligned(est *domain.Establishment, date time.Time, start types.TimeString) (bool, error) {
	slots, err := domain.SlotTimes(est, date)
	if err != nil {
		return false, err
	}
	for _, s := range slots {
		if s == start {
			return true, nil
		}
	}
	return false, nil
}
