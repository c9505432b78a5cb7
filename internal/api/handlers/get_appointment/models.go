package get_appointment

import (
	"time"

	"github.com/agendafacil/booking-service/internal/service/appointments/models"
)

// AppointmentResponse is the HTTP response model.
type AppointmentResponse struct {
	ID                 int64   `json:"id"`
	EstablishmentID    int64   `json:"establishmentId"`
	ServiceID          int64   `json:"serviceId"`
	CustomerName       string  `json:"customerName"`
	CustomerPhone      string  `json:"customerPhone"`
	ScheduledAt        string  `json:"scheduledAt"`
	ServiceName        string  `json:"serviceName"`
	DurationMinutes    int     `json:"durationMinutes"`
	Price              float64 `json:"price"`
	DiscountAmount     float64 `json:"discountAmount"`
	DiscountCode       *string `json:"discountCode,omitempty"`
	FinalPrice         float64 `json:"finalPrice"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// FromServiceResponse converts the service answer into the HTTP response.
func FromServiceResponse(resp *models.AppointmentResponse) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 resp.ID,
		EstablishmentID:    resp.EstablishmentID,
		ServiceID:          resp.ServiceID,
		CustomerName:       resp.CustomerName,
		CustomerPhone:      resp.CustomerPhone,
		ScheduledAt:        resp.ScheduledAt.Format(time.RFC3339),
		ServiceName:        resp.ServiceName,
		DurationMinutes:    resp.DurationMinutes,
		Price:              resp.Price,
		DiscountAmount:     resp.DiscountAmount,
		DiscountCode:       resp.DiscountCode,
		FinalPrice:         resp.FinalPrice,
		Status:             resp.Status,
		CancellationReason: resp.CancellationReason,
		CreatedAt:          resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          resp.UpdatedAt.Format(time.RFC3339),
	}
}
