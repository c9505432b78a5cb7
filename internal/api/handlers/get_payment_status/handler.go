package get_payment_status

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/agendafacil/booking-service/internal/api/handlers"
	getPaymentStatus "github.com/agendafacil/booking-service/internal/usecase/get_payment_status"
)

const (
	msgInvalidRef          = "referência de pagamento inválida"
	msgTransactionNotFound = "cobrança não encontrada"
)

// PaymentStatusResponse is the HTTP response model.
type PaymentStatusResponse struct {
	Ref           string  `json:"ref"`
	AppointmentID int64   `json:"appointmentId"`
	Amount        float64 `json:"amount"`
	PaymentStatus string  `json:"paymentStatus"`
	ExpiresAt     string  `json:"expiresAt"`
}

type Handler struct {
	useCase GetPaymentStatusUseCase
	logger  Logger
}

func NewHandler(useCase GetPaymentStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/payments/{ref}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]
	if ref == "" {
		handlers.RespondBadRequest(w, msgInvalidRef)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getPaymentStatus.Request{GatewayRef: ref})
	if err != nil {
		switch {
		case errors.Is(err, getPaymentStatus.ErrTransactionNotFound):
			h.logger.Warn("GET /payments/{ref} - Not found: ref=%s", ref)
			handlers.RespondNotFound(w, msgTransactionNotFound)

		case errors.Is(err, getPaymentStatus.ErrInvalidInput):
			h.logger.Warn("GET /payments/{ref} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRef)

		default:
			h.logger.Error("GET /payments/{ref} - Failed: ref=%s, error=%v", ref, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &PaymentStatusResponse{
		Ref:           result.GatewayRef,
		AppointmentID: result.AppointmentID,
		Amount:        result.Amount,
		PaymentStatus: result.PaymentStatus,
		ExpiresAt:     result.ExpiresAt.Format(time.RFC3339),
	})
}
