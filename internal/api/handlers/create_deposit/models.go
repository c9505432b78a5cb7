package create_deposit

import (
	"time"

	createDeposit "github.com/agendafacil/booking-service/internal/usecase/create_deposit"
)

// DepositResponse is the HTTP response model.
type DepositResponse struct {
	TransactionID int64   `json:"transactionId"`
	Ref           string  `json:"ref"`
	Amount        float64 `json:"amount"`
	QRPayload     string  `json:"qrPayload"`
	PaymentStatus string  `json:"paymentStatus"`
	ExpiresAt     string  `json:"expiresAt"`
}

// FromUseCaseResponse converts the use case answer into the HTTP response.
func FromUseCaseResponse(resp *createDeposit.Response) *DepositResponse {
	return &DepositResponse{
		TransactionID: resp.TransactionID,
		Ref:           resp.GatewayRef,
		Amount:        resp.Amount,
		QRPayload:     resp.QRPayload,
		PaymentStatus: resp.PaymentStatus,
		ExpiresAt:     resp.ExpiresAt.Format(time.RFC3339),
	}
}
