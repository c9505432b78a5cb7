package create_reservation

import (
	"time"

	"github.com/agendafacil/booking-service/pkg/types"
)

// Request carries a reservation attempt.
type Request struct {
	EstablishmentID int64
	ServiceID       int64
	CustomerName    string
	CustomerPhone   string
	Date            time.Time
	StartTime       types.TimeString
	CouponCode      string
}

// Response describes the created appointment and its pricing snapshot.
type Response struct {
	AppointmentID   int64
	EstablishmentID int64
	ServiceID       int64
	ServiceName     string
	ScheduledAt     time.Time
	DurationMinutes int
	Price           float64
	DiscountAmount  float64
	DiscountCode    *string
	FinalPrice      float64
	Status          string

	// RequiresDeposit tells the client whether a deposit charge must be
	// created before the appointment confirms.
	RequiresDeposit bool
	DepositAmount   float64
}
