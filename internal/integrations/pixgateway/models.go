package pixgateway

import (
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
)

// ChargeRequest is the payload sent to the gateway to create a PIX charge.
type ChargeRequest struct {
	Amount         float64           `json:"amount"`
	IdempotencyKey string            `json:"idempotencyKey"`
	ExpiresIn      int               `json:"expiresIn"` // seconds
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Charge is the gateway's answer to a charge creation.
type Charge struct {
	Ref       string    `json:"ref"`
	QRPayload string    `json:"qrPayload"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// chargeStatusResponse is the gateway's answer to a status query.
type chargeStatusResponse struct {
	Ref    string `json:"ref"`
	Status string `json:"status"`
}

// Gateway status values. They deliberately mirror the domain payment
// statuses; MapStatus is the single conversion point.
const (
	statusCreated  = "created"
	statusPending  = "pending"
	statusPaid     = "paid"
	statusRejected = "rejected"
	statusExpired  = "expired"
)

// MapStatus converts a gateway status string into a domain payment status.
// Unknown values map to pending so an unrecognized intermediate state never
// triggers a terminal transition.
func MapStatus(s string) domain.PaymentStatus {
	switch s {
	case statusCreated:
		return domain.PaymentCreated
	case statusPaid:
		return domain.PaymentPaid
	case statusRejected:
		return domain.PaymentRejected
	case statusExpired:
		return domain.PaymentExpired
	case statusPending:
		return domain.PaymentPending
	default:
		return domain.PaymentPending
	}
}
