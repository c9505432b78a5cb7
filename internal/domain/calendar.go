package domain

import (
	"time"

	"github.com/agendafacil/booking-service/pkg/types"
)

// DayStatus classifies a whole calendar day for an establishment.
type DayStatus string

const (
	DayPast      DayStatus = "past"
	DayClosed    DayStatus = "closed"
	DayBlocked   DayStatus = "blocked"
	DayAvailable DayStatus = "available"
)

// SlotStatus classifies a single slot start within a day.
type SlotStatus string

const (
	SlotPast      SlotStatus = "past"
	SlotBlocked   SlotStatus = "blocked"
	SlotOccupied  SlotStatus = "occupied"
	SlotAvailable SlotStatus = "available"
)

// DateOnly truncates an instant to midnight in the given location.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// ClassifyDay applies the calendar rules to a whole day. Precedence is
// blocked > closed > past: a blocked holiday stays blocked even when the
// weekday has no working hours or the date already passed, so the caller
// always sees the most actionable reason. Slot-level exhaustion is not
// considered here.
func ClassifyDay(est *Establishment, blocks CalendarBlocks, date, now time.Time) DayStatus {
	if blocks.DateBlocked(date) {
		return DayBlocked
	}

	schedule := est.WorkingHours.ForWeekday(date.Weekday())
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.CloseTime == nil {
		return DayClosed
	}

	loc := est.Location()
	if DateOnly(date, loc).Before(DateOnly(now, loc)) {
		return DayPast
	}

	return DayAvailable
}

// ClassifySlot applies the calendar rules to a single slot start on an
// otherwise available day. Occupancy is left to the caller, which owns the
// appointment counts; everything here is pure.
func ClassifySlot(est *Establishment, blocks CalendarBlocks, date time.Time, slotStart types.TimeString, now time.Time) (SlotStatus, error) {
	slotEnd, err := slotStart.AddMinutes(est.Granularity())
	if err != nil {
		return "", err
	}

	for i := range blocks.Times {
		if blocks.Times[i].Covers(date, slotStart, slotEnd) {
			return SlotBlocked, nil
		}
	}

	loc := est.Location()
	instant, err := slotStart.At(date, loc)
	if err != nil {
		return "", err
	}
	if !instant.After(now) {
		return SlotPast, nil
	}

	return SlotAvailable, nil
}

// SlotTimes enumerates the candidate slot starts for the date's weekday
// between opening and closing at the establishment's granularity. A slot
// whose end would cross the closing time is not generated.
func SlotTimes(est *Establishment, date time.Time) ([]types.TimeString, error) {
	schedule := est.WorkingHours.ForWeekday(date.Weekday())
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.CloseTime == nil {
		return []types.TimeString{}, nil
	}

	step := est.Granularity()
	slots := make([]types.TimeString, 0)
	current := *schedule.OpenTime

	for current.IsBefore(*schedule.CloseTime) {
		end, err := current.AddMinutes(step)
		if err != nil {
			return nil, err
		}
		if end.IsAfter(*schedule.CloseTime) {
			break
		}
		slots = append(slots, current)

		current, err = current.AddMinutes(step)
		if err != nil {
			return nil, err
		}
		// Midnight wrap would loop forever on a 24h schedule.
		if current == *schedule.OpenTime {
			break
		}
	}

	return slots, nil
}

// SlotInstant anchors a slot start on a date in the establishment's zone.
func SlotInstant(est *Establishment, date time.Time, slotStart types.TimeString) (time.Time, error) {
	return slotStart.At(date, est.Location())
}

// BookingWindow computes the [earliest, latest] bookable instants from the
// establishment's offsets evaluated against now. A zero latest with
// latestSet=false means the window is open-ended.
func BookingWindow(est *Establishment, now time.Time) (earliest time.Time, latest time.Time, latestSet bool) {
	earliest = now
	if est.EarliestBookingOffset.IsSet() {
		earliest = est.EarliestBookingOffset.Apply(now)
	}
	if est.LatestBookingOffset.IsSet() {
		return earliest, est.LatestBookingOffset.Apply(now), true
	}
	return earliest, time.Time{}, false
}
