package create_deposit

import "time"

// Request identifies the appointment to charge a deposit for.
type Request struct {
	AppointmentID int64
}

// Response carries what the customer needs to pay the PIX charge.
type Response struct {
	TransactionID int64
	GatewayRef    string
	Amount        float64
	QRPayload     string
	PaymentStatus string
	ExpiresAt     time.Time

	// AlreadyExists is true when an earlier call created the charge and this
	// call returned it unchanged.
	AlreadyExists bool
}
