package domain

import "time"

// PaymentStatus represents the state of a deposit charge at the gateway.
type PaymentStatus string

const (
	PaymentCreated  PaymentStatus = "created"
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRejected PaymentStatus = "rejected"
	PaymentExpired  PaymentStatus = "expired"
)

// IsTerminal reports whether the status admits no further transition.
// All status-gated updates check this before applying side effects.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentPaid || s == PaymentRejected || s == PaymentExpired
}

// Transaction is a deposit charge issued against an appointment. At most one
// non-terminal transaction exists per appointment.
type Transaction struct {
	ID             int64
	AppointmentID  int64
	GatewayRef     string
	IdempotencyKey string
	Amount         float64
	QRPayload      string
	PaymentStatus  PaymentStatus
	ExpiresAt      time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExpired reports whether the charge window has passed without a terminal
// signal from the gateway.
func (t *Transaction) IsExpired(now time.Time) bool {
	return !t.PaymentStatus.IsTerminal() && now.After(t.ExpiresAt)
}
