package domain

import "time"

// AppointmentStatus represents the lifecycle status of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusStarted   AppointmentStatus = "started"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Cancellation reasons recorded when an appointment reaches cancelled.
const (
	ReasonPaymentRejected          = "payment_rejected"
	ReasonPaymentTimeout           = "payment_timeout"
	ReasonCancelledByCustomer      = "cancelled_by_customer"
	ReasonCancelledByEstablishment = "cancelled_by_establishment"
)

// Appointment represents a customer reservation for a service at an exact
// slot instant. Status is owned by the reservation flow until pending, by the
// payment flow until confirmed/cancelled, and by the lifecycle collaborator
// afterwards.
type Appointment struct {
	ID              int64
	EstablishmentID int64
	ServiceID       int64
	CustomerName    string
	CustomerPhone   string
	ScheduledAt     time.Time

	// Denormalized pricing snapshot, computed server-side at reservation time.
	ServiceName     string
	DurationMinutes int
	Price           float64
	DiscountAmount  float64
	DiscountCode    *string
	FinalPrice      float64

	Status             AppointmentStatus
	CancellationReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CountsTowardCapacity reports whether the appointment still occupies its
// slot. Only cancelled appointments release capacity.
func (a *Appointment) CountsTowardCapacity() bool {
	return a.Status != StatusCancelled
}

// IsTerminal reports whether no further automatic transition applies.
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled
}

// CanBeCancelled reports whether a customer or establishment cancellation is
// still allowed.
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// RequiresDeposit reports whether the appointment is waiting on a deposit
// payment before confirmation.
func (a *Appointment) RequiresDeposit() bool {
	return a.Status == StatusPending
}
