package get_slots

import (
	"time"

	"github.com/agendafacil/booking-service/pkg/types"
)

// Request asks for the slot list of one day.
type Request struct {
	EstablishmentID int64
	ServiceID       int64
	Date            time.Time // date only, no time component
}

// Response carries the day classification and the per-slot statuses.
type Response struct {
	EstablishmentID int64
	ServiceID       int64
	Date            time.Time
	DayStatus       string
	Slots           []Slot
}

// Slot is one candidate start with its availability.
type Slot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Status          string
	AvailableSpots  int
	TotalSpots      int
}
