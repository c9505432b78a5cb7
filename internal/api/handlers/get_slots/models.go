package get_slots

import (
	"github.com/agendafacil/booking-service/internal/domain"
	getSlots "github.com/agendafacil/booking-service/internal/usecase/get_slots"
)

// SlotResponse is one slot of the day.
type SlotResponse struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
	AvailableSpots  int    `json:"availableSpots"`
	TotalSpots      int    `json:"totalSpots"`
}

// SlotsResponse is the HTTP response model.
type SlotsResponse struct {
	EstablishmentID int64          `json:"establishmentId"`
	ServiceID       int64          `json:"serviceId"`
	Date            string         `json:"date"`
	DayStatus       string         `json:"dayStatus"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse converts the use case answer into the HTTP response.
func FromUseCaseResponse(resp *getSlots.Response) *SlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = SlotResponse{
			StartTime:       s.StartTime.String(),
			DurationMinutes: s.DurationMinutes,
			Status:          s.Status,
			AvailableSpots:  s.AvailableSpots,
			TotalSpots:      s.TotalSpots,
		}
	}
	return &SlotsResponse{
		EstablishmentID: resp.EstablishmentID,
		ServiceID:       resp.ServiceID,
		Date:            resp.Date.Format(domain.DateFormat),
		DayStatus:       resp.DayStatus,
		Slots:           slots,
	}
}
