package create_deposit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/agendafacil/booking-service/internal/api/handlers"
	createDeposit "github.com/agendafacil/booking-service/internal/usecase/create_deposit"
)

const (
	msgInvalidAppointmentID  = "identificador de agendamento inválido"
	msgAppointmentNotFound   = "agendamento não encontrado"
	msgAppointmentNotPending = "o agendamento não está aguardando depósito"
	msgDepositNotRequired    = "o estabelecimento não exige depósito"
	msgEstablishmentNotFound = "estabelecimento não encontrado"
	msgPaymentGateway        = "falha ao gerar a cobrança, tente novamente"
)

type Handler struct {
	useCase CreateDepositUseCase
	logger  Logger
}

func NewHandler(useCase CreateDepositUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/deposit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/deposit - Invalid appointment id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &createDeposit.Request{
		AppointmentID: appointmentID,
	})
	if err != nil {
		switch {
		case errors.Is(err, createDeposit.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/deposit - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, createDeposit.ErrAppointmentNotPending):
			h.logger.Warn("POST /appointments/{id}/deposit - Not pending: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgAppointmentNotPending)

		case errors.Is(err, createDeposit.ErrDepositNotRequired):
			h.logger.Warn("POST /appointments/{id}/deposit - Deposit not required: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgDepositNotRequired)

		case errors.Is(err, createDeposit.ErrEstablishmentNotFound):
			h.logger.Warn("POST /appointments/{id}/deposit - Establishment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgEstablishmentNotFound)

		case errors.Is(err, createDeposit.ErrPaymentGateway):
			h.logger.Error("POST /appointments/{id}/deposit - Gateway failure: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgPaymentGateway)

		case errors.Is(err, createDeposit.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/deposit - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidAppointmentID)

		default:
			h.logger.Error("POST /appointments/{id}/deposit - Failed: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if result.AlreadyExists {
		status = http.StatusOK
	}

	h.logger.Info("POST /appointments/{id}/deposit - Charge ready: appointment_id=%d, ref=%s, existed=%t",
		appointmentID, result.GatewayRef, result.AlreadyExists)
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
