package domain

import (
	"time"

	"github.com/agendafacil/booking-service/pkg/types"
)

// SlotInfo is the availability of one candidate slot start.
type SlotInfo struct {
	Start    types.TimeString
	Instant  time.Time
	Status   SlotStatus
	Occupied int
	Capacity int
}

// Available reports whether the slot can still be booked.
func (s SlotInfo) Available() bool {
	return s.Status == SlotAvailable
}

// ComputeDaySlots builds the per-slot availability of one day. Candidate
// starts outside the establishment's booking window (earliest/latest offsets
// evaluated against now) are dropped from the enumeration entirely; the
// remaining ones are classified as past, blocked, occupied or available
// using the occupancy counts keyed by UTC slot instant.
//
// The function is pure: appointment counts are supplied by the caller, so
// availability reads never touch the reservation critical section.
func ComputeDaySlots(est *Establishment, blocks CalendarBlocks, date, now time.Time, counts map[time.Time]int) ([]SlotInfo, error) {
	starts, err := SlotTimes(est, date)
	if err != nil {
		return nil, err
	}

	earliest, latest, latestSet := BookingWindow(est, now)
	capacity := est.Capacity()

	slots := make([]SlotInfo, 0, len(starts))
	for _, start := range starts {
		instant, err := SlotInstant(est, date, start)
		if err != nil {
			return nil, err
		}
		if instant.Before(earliest) && instant.After(now) {
			// Inside the minimum-notice window: not enumerated at all.
			continue
		}
		if latestSet && instant.After(latest) {
			continue
		}

		status, err := ClassifySlot(est, blocks, date, start, now)
		if err != nil {
			return nil, err
		}

		occupied := counts[instant.UTC()]
		if status == SlotAvailable && occupied >= capacity {
			status = SlotOccupied
		}

		slots = append(slots, SlotInfo{
			Start:    start,
			Instant:  instant,
			Status:   status,
			Occupied: occupied,
			Capacity: capacity,
		})
	}

	return slots, nil
}

// DayStatusFromSlots folds per-slot availability into the day-level status
// for the range view. A day that the calendar rules already classify as
// blocked/closed/past keeps that status; an open day reports available when
// at least one slot is free, and closed otherwise ("no availability" is
// surfaced as closed by contract).
func DayStatusFromSlots(dayStatus DayStatus, slots []SlotInfo) DayStatus {
	if dayStatus != DayAvailable {
		return dayStatus
	}
	for _, slot := range slots {
		if slot.Available() {
			return DayAvailable
		}
	}
	return DayClosed
}
