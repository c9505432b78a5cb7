package settingsservice

import (
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/pkg/types"
)

// Wire models for the settings provider API. They are converted to domain
// snapshots at the client boundary so the rest of the service never sees
// provider-specific shapes.

// DaySchedule working hours for one weekday.
type DaySchedule struct {
	IsOpen    bool    `json:"isOpen"`
	OpenTime  *string `json:"openTime,omitempty"`  // "09:00"
	CloseTime *string `json:"closeTime,omitempty"` // "18:00"
}

// WorkingHours weekly schedule.
type WorkingHours struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// BookingOffset bounds the booking window relative to "now".
type BookingOffset struct {
	Unit  string `json:"unit"` // none|day|week|month
	Count int    `json:"count"`
}

// Establishment settings snapshot.
type Establishment struct {
	ID                     int64         `json:"id"`
	Name                   string        `json:"name"`
	Timezone               string        `json:"timezone"`
	WorkingHours           WorkingHours  `json:"workingHours"`
	SlotsPerHour           int           `json:"slotsPerHour"`
	SlotGranularityMinutes int           `json:"slotGranularityMinutes"`
	EarliestBookingOffset  BookingOffset `json:"earliestBookingOffset"`
	LatestBookingOffset    BookingOffset `json:"latestBookingOffset"`
	FeeEnabled             bool          `json:"feeEnabled"`
	FeeType                string        `json:"feeType"` // fixed|percentage
	FeeAmount              float64       `json:"feeAmount"`
}

// Service offering snapshot.
type Service struct {
	ID               int64    `json:"id"`
	EstablishmentID  int64    `json:"establishmentId"`
	Name             string   `json:"name"`
	DurationMinutes  int      `json:"durationMinutes"`
	Price            float64  `json:"price"`
	PromotionalPrice *float64 `json:"promotionalPrice,omitempty"`
	Active           bool     `json:"active"`
}

// BlockedDate full-day calendar block.
type BlockedDate struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"` // YYYY-MM-DD
	IsRecurring bool    `json:"isRecurring"`
	Reason      *string `json:"reason,omitempty"`
}

// BlockedTime sub-day calendar block.
type BlockedTime struct {
	ID        int64   `json:"id"`
	Date      string  `json:"date"`      // YYYY-MM-DD
	StartTime string  `json:"startTime"` // HH:MM
	EndTime   string  `json:"endTime"`   // HH:MM
	Reason    *string `json:"reason,omitempty"`
}

// CalendarBlocks response for a queried period.
type CalendarBlocks struct {
	BlockedDates []BlockedDate `json:"blockedDates"`
	BlockedTimes []BlockedTime `json:"blockedTimes"`
}

// ToDomain converts the wire establishment into a domain snapshot.
func (e *Establishment) ToDomain() *domain.Establishment {
	return &domain.Establishment{
		ID:                     e.ID,
		Name:                   e.Name,
		Timezone:               e.Timezone,
		WorkingHours:           e.WorkingHours.toDomain(),
		SlotsPerHour:           e.SlotsPerHour,
		SlotGranularityMinutes: e.SlotGranularityMinutes,
		EarliestBookingOffset:  e.EarliestBookingOffset.toDomain(),
		LatestBookingOffset:    e.LatestBookingOffset.toDomain(),
		FeeEnabled:             e.FeeEnabled,
		FeeType:                domain.FeeType(e.FeeType),
		FeeAmount:              e.FeeAmount,
	}
}

func (w WorkingHours) toDomain() domain.WorkingHours {
	return domain.WorkingHours{
		Monday:    w.Monday.toDomain(),
		Tuesday:   w.Tuesday.toDomain(),
		Wednesday: w.Wednesday.toDomain(),
		Thursday:  w.Thursday.toDomain(),
		Friday:    w.Friday.toDomain(),
		Saturday:  w.Saturday.toDomain(),
		Sunday:    w.Sunday.toDomain(),
	}
}

func (d DaySchedule) toDomain() domain.DaySchedule {
	out := domain.DaySchedule{IsOpen: d.IsOpen}
	if d.OpenTime != nil {
		if ts, err := types.NewTimeStringFromString(*d.OpenTime); err == nil {
			out.OpenTime = &ts
		}
	}
	if d.CloseTime != nil {
		if ts, err := types.NewTimeStringFromString(*d.CloseTime); err == nil {
			out.CloseTime = &ts
		}
	}
	// A day with unparsable bounds is treated as closed rather than passed
	// through half-formed.
	if d.IsOpen && (out.OpenTime == nil || out.CloseTime == nil) {
		out.IsOpen = false
	}
	return out
}

func (o BookingOffset) toDomain() domain.BookingOffset {
	switch o.Unit {
	case string(domain.OffsetDay), string(domain.OffsetWeek), string(domain.OffsetMonth):
		return domain.BookingOffset{Unit: domain.OffsetUnit(o.Unit), Count: o.Count}
	default:
		return domain.BookingOffset{Unit: domain.OffsetNone}
	}
}

// ToDomain converts the wire service into a domain snapshot.
func (s *Service) ToDomain() *domain.Service {
	return &domain.Service{
		ID:               s.ID,
		EstablishmentID:  s.EstablishmentID,
		Name:             s.Name,
		DurationMinutes:  s.DurationMinutes,
		Price:            s.Price,
		PromotionalPrice: s.PromotionalPrice,
		Active:           s.Active,
	}
}

// ToDomain converts the wire blocks into domain calendar blocks, dropping
// entries with unparsable dates or times.
func (c *CalendarBlocks) ToDomain(establishmentID int64) domain.CalendarBlocks {
	out := domain.CalendarBlocks{}

	for _, bd := range c.BlockedDates {
		date, err := time.Parse(domain.DateFormat, bd.Date)
		if err != nil {
			continue
		}
		out.Dates = append(out.Dates, domain.BlockedDate{
			ID:              bd.ID,
			EstablishmentID: establishmentID,
			Date:            date,
			IsRecurring:     bd.IsRecurring,
			Reason:          bd.Reason,
		})
	}

	for _, bt := range c.BlockedTimes {
		date, err := time.Parse(domain.DateFormat, bt.Date)
		if err != nil {
			continue
		}
		start, err := types.NewTimeStringFromString(bt.StartTime)
		if err != nil {
			continue
		}
		end, err := types.NewTimeStringFromString(bt.EndTime)
		if err != nil {
			continue
		}
		out.Times = append(out.Times, domain.BlockedTime{
			ID:              bt.ID,
			EstablishmentID: establishmentID,
			Date:            date,
			StartTime:       start,
			EndTime:         end,
			Reason:          bt.Reason,
		})
	}

	return out
}
