package get_payment_status

import "time"

// Request identifies the charge to inspect.
type Request struct {
	GatewayRef string
}

// Response is the current state of the deposit charge.
type Response struct {
	GatewayRef    string
	AppointmentID int64
	Amount        float64
	PaymentStatus string
	ExpiresAt     time.Time
}
