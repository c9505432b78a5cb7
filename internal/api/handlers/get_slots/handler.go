package get_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/agendafacil/booking-service/internal/api/handlers"
	"github.com/agendafacil/booking-service/internal/domain"
	getSlots "github.com/agendafacil/booking-service/internal/usecase/get_slots"
)

const (
	msgInvalidEstablishmentID = "identificador de estabelecimento inválido"
	msgInvalidServiceID       = "identificador de serviço inválido"
	msgInvalidDate            = "formato de data inválido, esperado YYYY-MM-DD"
	msgEstablishmentNotFound  = "estabelecimento não encontrado"
	msgServiceNotFound        = "serviço não encontrado"
	msgServiceInactive        = "serviço indisponível"
	msgDateOutsideWindow      = "data fora da janela de agendamento"
)

type Handler struct {
	useCase GetSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/establishments/{establishmentId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	establishmentID, err := strconv.ParseInt(mux.Vars(r)["establishmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /slots - Invalid establishment id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	serviceID, err := strconv.ParseInt(r.URL.Query().Get("serviceId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /slots - Invalid service id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getSlots.Request{
		EstablishmentID: establishmentID,
		ServiceID:       serviceID,
		Date:            date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getSlots.ErrEstablishmentNotFound):
			h.logger.Warn("GET /slots - Establishment not found: establishment_id=%d", establishmentID)
			handlers.RespondNotFound(w, msgEstablishmentNotFound)

		case errors.Is(err, getSlots.ErrServiceNotFound):
			h.logger.Warn("GET /slots - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getSlots.ErrServiceInactive):
			h.logger.Warn("GET /slots - Service inactive: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, getSlots.ErrDateOutsideWindow):
			h.logger.Warn("GET /slots - Date outside window: establishment_id=%d, date=%s",
				establishmentID, date.Format(domain.DateFormat))
			handlers.RespondBadRequest(w, msgDateOutsideWindow)

		case errors.Is(err, getSlots.ErrInvalidInput):
			h.logger.Warn("GET /slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /slots - Failed: establishment_id=%d, error=%v", establishmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
