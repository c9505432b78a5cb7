package get_availability

import (
	"github.com/agendafacil/booking-service/internal/domain"
	getAvailability "github.com/agendafacil/booking-service/internal/usecase/get_availability"
)

// DayResponse is a single day of the calendar map.
type DayResponse struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// AvailabilityResponse is the HTTP response model.
type AvailabilityResponse struct {
	EstablishmentID int64         `json:"establishmentId"`
	ServiceID       int64         `json:"serviceId"`
	Days            []DayResponse `json:"days"`
}

// FromUseCaseResponse converts the use case answer into the HTTP response.
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	days := make([]DayResponse, len(resp.Days))
	for i, d := range resp.Days {
		days[i] = DayResponse{
			Date:   d.Date.Format(domain.DateFormat),
			Status: d.Status,
		}
	}
	return &AvailabilityResponse{
		EstablishmentID: resp.EstablishmentID,
		ServiceID:       resp.ServiceID,
		Days:            days,
	}
}
