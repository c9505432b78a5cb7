package models

import (
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
)

// AppointmentResponse is the service-layer view of an appointment.
type AppointmentResponse struct {
	ID              int64
	EstablishmentID int64
	ServiceID       int64
	CustomerName    string
	CustomerPhone   string
	ScheduledAt     time.Time

	ServiceName     string
	DurationMinutes int
	Price           float64
	DiscountAmount  float64
	DiscountCode    *string
	FinalPrice      float64

	Status             string
	CancellationReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FromDomainAppointment converts a domain appointment.
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 a.ID,
		EstablishmentID:    a.EstablishmentID,
		ServiceID:          a.ServiceID,
		CustomerName:       a.CustomerName,
		CustomerPhone:      a.CustomerPhone,
		ScheduledAt:        a.ScheduledAt,
		ServiceName:        a.ServiceName,
		DurationMinutes:    a.DurationMinutes,
		Price:              a.Price,
		DiscountAmount:     a.DiscountAmount,
		DiscountCode:       a.DiscountCode,
		FinalPrice:         a.FinalPrice,
		Status:             string(a.Status),
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// CancelRequest asks for an appointment cancellation.
type CancelRequest struct {
	AppointmentID int64
	ByCustomer    bool
}
