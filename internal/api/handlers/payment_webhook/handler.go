package payment_webhook

import (
	"errors"
	"net/http"

	"github.com/agendafacil/booking-service/internal/api/handlers"
	ingestPaymentStatus "github.com/agendafacil/booking-service/internal/usecase/ingest_payment_status"
)

const (
	msgInvalidRequestBody  = "corpo da requisição inválido"
	msgTransactionNotFound = "cobrança não encontrada"
)

// WebhookRequest is the payload pushed by the payment gateway.
type WebhookRequest struct {
	Ref    string `json:"ref"`
	Status string `json:"status"`
}

// WebhookResponse acknowledges the delivery.
type WebhookResponse struct {
	Ref           string `json:"ref"`
	PaymentStatus string `json:"paymentStatus"`
	Applied       bool   `json:"applied"`
}

type Handler struct {
	useCase IngestPaymentStatusUseCase
	logger  Logger
}

func NewHandler(useCase IngestPaymentStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/webhook
//
// Redelivered events answer 200 with applied=false so the gateway stops
// retrying; only unknown refs and internal failures are error statuses.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/webhook - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &ingestPaymentStatus.Request{
		GatewayRef: req.Ref,
		Status:     req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, ingestPaymentStatus.ErrTransactionNotFound):
			h.logger.Warn("POST /payments/webhook - Unknown ref=%s", req.Ref)
			handlers.RespondNotFound(w, msgTransactionNotFound)

		case errors.Is(err, ingestPaymentStatus.ErrInvalidInput):
			h.logger.Warn("POST /payments/webhook - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /payments/webhook - Failed: ref=%s, error=%v", req.Ref, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/webhook - Processed: ref=%s, status=%s, applied=%t",
		result.GatewayRef, result.PaymentStatus, result.Applied)
	handlers.RespondJSON(w, http.StatusOK, &WebhookResponse{
		Ref:           result.GatewayRef,
		PaymentStatus: result.PaymentStatus,
		Applied:       result.Applied,
	})
}
