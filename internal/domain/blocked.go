package domain

import (
	"time"

	"github.com/agendafacil/booking-service/pkg/types"
)

// BlockedDate fully blocks a calendar day. When IsRecurring is set the block
// repeats every year on the same month and day.
type BlockedDate struct {
	ID              int64
	EstablishmentID int64
	Date            time.Time
	IsRecurring     bool
	Reason          *string
}

// Matches reports whether the block applies to the given date.
func (b *BlockedDate) Matches(date time.Time) bool {
	if b.IsRecurring {
		return b.Date.Month() == date.Month() && b.Date.Day() == date.Day()
	}
	return b.Date.Year() == date.Year() &&
		b.Date.Month() == date.Month() &&
		b.Date.Day() == date.Day()
}

// BlockedTime blocks a sub-range of an otherwise open day.
type BlockedTime struct {
	ID              int64
	EstablishmentID int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Reason          *string
}

// Covers reports whether the [slotStart, slotEnd) interval intersects the
// blocked range on the block's date. Touching boundaries do not intersect.
func (b *BlockedTime) Covers(date time.Time, slotStart, slotEnd types.TimeString) bool {
	if b.Date.Year() != date.Year() || b.Date.Month() != date.Month() || b.Date.Day() != date.Day() {
		return false
	}
	return b.StartTime.IsBefore(slotEnd) && b.EndTime.IsAfter(slotStart)
}

// CalendarBlocks bundles the blocked dates and blocked time windows of an
// establishment for a queried period.
type CalendarBlocks struct {
	Dates []BlockedDate
	Times []BlockedTime
}

// DateBlocked reports whether any full-day block matches the date.
func (c CalendarBlocks) DateBlocked(date time.Time) bool {
	for i := range c.Dates {
		if c.Dates[i].Matches(date) {
			return true
		}
	}
	return false
}
