package domain

import (
	"time"

	"github.com/agendafacil/booking-service/pkg/types"
)

// DaySchedule describes working hours for a single weekday.
type DaySchedule struct {
	IsOpen    bool
	OpenTime  *types.TimeString
	CloseTime *types.TimeString
}

// WorkingHours maps each weekday to its schedule.
type WorkingHours struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// ForWeekday returns the schedule for the given weekday.
func (w WorkingHours) ForWeekday(weekday time.Weekday) DaySchedule {
	switch weekday {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// OffsetUnit is the unit of a booking window offset.
type OffsetUnit string

const (
	OffsetNone  OffsetUnit = "none"
	OffsetDay   OffsetUnit = "day"
	OffsetWeek  OffsetUnit = "week"
	OffsetMonth OffsetUnit = "month"
)

// BookingOffset is a fixed offset relative to "now" bounding how soon or how
// far ahead a slot may be booked.
type BookingOffset struct {
	Unit  OffsetUnit
	Count int
}

// IsSet reports whether the offset constrains the booking window.
func (o BookingOffset) IsSet() bool {
	return o.Unit != "" && o.Unit != OffsetNone && o.Count > 0
}

// Apply shifts the given instant forward by the offset.
func (o BookingOffset) Apply(from time.Time) time.Time {
	switch o.Unit {
	case OffsetDay:
		return from.AddDate(0, 0, o.Count)
	case OffsetWeek:
		return from.AddDate(0, 0, 7*o.Count)
	case OffsetMonth:
		return from.AddDate(0, o.Count, 0)
	default:
		return from
	}
}

// FeeType determines how the deposit amount is derived from the final price.
type FeeType string

const (
	FeeFixed      FeeType = "fixed"
	FeePercentage FeeType = "percentage"
)

// Establishment is a read-only settings snapshot delivered by the settings
// provider. It must not be mutated during a booking transaction.
type Establishment struct {
	ID       int64
	Name     string
	Timezone string

	WorkingHours           WorkingHours
	SlotsPerHour           int
	SlotGranularityMinutes int

	EarliestBookingOffset BookingOffset
	LatestBookingOffset   BookingOffset

	FeeEnabled bool
	FeeType    FeeType
	FeeAmount  float64
}

// Location resolves the establishment's IANA time zone, falling back to UTC
// when unset or unknown.
func (e *Establishment) Location() *time.Location {
	if e.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Granularity returns the slot step in minutes, defaulting when unset.
func (e *Establishment) Granularity() int {
	if e.SlotGranularityMinutes <= 0 {
		return DefaultSlotGranularityMinutes
	}
	return e.SlotGranularityMinutes
}

// Capacity returns the per-slot capacity, defaulting when unset.
func (e *Establishment) Capacity() int {
	if e.SlotsPerHour <= 0 {
		return DefaultSlotsPerHour
	}
	return e.SlotsPerHour
}

// DepositAmount applies the deposit fee policy to the given final price,
// rounded to cents. Returns 0 when deposits are disabled.
func (e *Establishment) DepositAmount(finalPrice float64) float64 {
	if !e.FeeEnabled {
		return 0
	}
	switch e.FeeType {
	case FeePercentage:
		return RoundMoney(finalPrice * e.FeeAmount / 100)
	default:
		return RoundMoney(e.FeeAmount)
	}
}
