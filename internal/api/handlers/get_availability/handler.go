package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/agendafacil/booking-service/internal/api/handlers"
	"github.com/agendafacil/booking-service/internal/domain"
	getAvailability "github.com/agendafacil/booking-service/internal/usecase/get_availability"
)

const (
	msgInvalidEstablishmentID = "identificador de estabelecimento inválido"
	msgInvalidServiceID       = "identificador de serviço inválido"
	msgInvalidDate            = "formato de data inválido, esperado YYYY-MM-DD"
	msgInvalidRange           = "intervalo de datas inválido"
	msgEstablishmentNotFound  = "estabelecimento não encontrado"
	msgServiceNotFound        = "serviço não encontrado"
	msgServiceInactive        = "serviço indisponível"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/establishments/{establishmentId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	establishmentID, err := strconv.ParseInt(mux.Vars(r)["establishmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid establishment id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishmentID)
		return
	}

	serviceID, err := strconv.ParseInt(r.URL.Query().Get("serviceId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid service id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	from, err := time.Parse(domain.DateFormat, r.URL.Query().Get("from"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid from date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	to, err := time.Parse(domain.DateFormat, r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid to date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		EstablishmentID: establishmentID,
		ServiceID:       serviceID,
		From:            from,
		To:              to,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrEstablishmentNotFound):
			h.logger.Warn("GET /availability - Establishment not found: establishment_id=%d", establishmentID)
			handlers.RespondNotFound(w, msgEstablishmentNotFound)

		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailability.ErrServiceInactive):
			h.logger.Warn("GET /availability - Service inactive: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, getAvailability.ErrInvalidRange), errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid range: establishment_id=%d, error=%v", establishmentID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /availability - Failed: establishment_id=%d, error=%v", establishmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
