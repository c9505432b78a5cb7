package create_reservation

import (
	"errors"
	"net/http"

	"github.com/agendafacil/booking-service/internal/api/handlers"
	createReservation "github.com/agendafacil/booking-service/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody    = "corpo da requisição inválido"
	msgInvalidDateTime       = "data ou horário inválido, esperado YYYY-MM-DD e HH:MM"
	msgEstablishmentNotFound = "estabelecimento não encontrado"
	msgServiceNotFound       = "serviço não encontrado"
	msgServiceInactive       = "serviço indisponível"
	msgSlotInPast            = "o horário escolhido já passou"
	msgSlotBlocked           = "o horário escolhido está bloqueado"
	msgSlotClosed            = "o estabelecimento está fechado neste horário"
	msgSlotFull              = "não há mais vagas neste horário"
	msgDateOutsideWindow     = "data fora da janela de agendamento"
	msgSlotMisaligned        = "horário fora da grade de agendamento"
	msgCouponRejected        = "cupom inválido ou esgotado"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrEstablishmentNotFound):
			h.logger.Warn("POST /appointments - Establishment not found: establishment_id=%d", req.EstablishmentID)
			handlers.RespondNotFound(w, msgEstablishmentNotFound)

		case errors.Is(err, createReservation.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createReservation.ErrServiceInactive):
			h.logger.Warn("POST /appointments - Service inactive: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createReservation.ErrSlotFull):
			h.logger.Warn("POST /appointments - Slot full: establishment_id=%d, date=%s, time=%s",
				req.EstablishmentID, req.Date, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotFull)

		case errors.Is(err, createReservation.ErrSlotInPast):
			h.logger.Warn("POST /appointments - Slot in the past: establishment_id=%d, date=%s, time=%s",
				req.EstablishmentID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, createReservation.ErrSlotBlocked):
			h.logger.Warn("POST /appointments - Slot blocked: establishment_id=%d, date=%s, time=%s",
				req.EstablishmentID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgSlotBlocked)

		case errors.Is(err, createReservation.ErrSlotClosed):
			h.logger.Warn("POST /appointments - Establishment closed: establishment_id=%d, date=%s",
				req.EstablishmentID, req.Date)
			handlers.RespondBadRequest(w, msgSlotClosed)

		case errors.Is(err, createReservation.ErrDateOutsideWindow):
			h.logger.Warn("POST /appointments - Date outside window: establishment_id=%d, date=%s",
				req.EstablishmentID, req.Date)
			handlers.RespondBadRequest(w, msgDateOutsideWindow)

		case errors.Is(err, createReservation.ErrSlotMisaligned):
			h.logger.Warn("POST /appointments - Misaligned slot: establishment_id=%d, time=%s",
				req.EstablishmentID, req.StartTime)
			handlers.RespondBadRequest(w, msgSlotMisaligned)

		case errors.Is(err, createReservation.ErrCouponRejected):
			h.logger.Warn("POST /appointments - Coupon rejected: code=%s, error=%v", req.CouponCode, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgCouponRejected)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments - Failed to create reservation: establishment_id=%d, error=%v",
				req.EstablishmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Reservation created: appointment_id=%d, establishment_id=%d, status=%s",
		result.AppointmentID, result.EstablishmentID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
