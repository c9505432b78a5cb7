package create_reservation

import (
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
	createReservation "github.com/agendafacil/booking-service/internal/usecase/create_reservation"
	"github.com/agendafacil/booking-service/pkg/types"
)

// CreateReservationRequest is the HTTP request model.
type CreateReservationRequest struct {
	EstablishmentID int64  `json:"establishmentId"`
	ServiceID       int64  `json:"serviceId"`
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	Date            string `json:"date"`      // "2026-03-15"
	StartTime       string `json:"startTime"` // "14:30"
	CouponCode      string `json:"couponCode,omitempty"`
}

// ReservationResponse is the HTTP response model.
type ReservationResponse struct {
	AppointmentID   int64   `json:"appointmentId"`
	EstablishmentID int64   `json:"establishmentId"`
	ServiceID       int64   `json:"serviceId"`
	ServiceName     string  `json:"serviceName"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	DiscountAmount  float64 `json:"discountAmount"`
	DiscountCode    *string `json:"discountCode,omitempty"`
	FinalPrice      float64 `json:"finalPrice"`
	Status          string  `json:"status"`
	RequiresDeposit bool    `json:"requiresDeposit"`
	DepositAmount   float64 `json:"depositAmount,omitempty"`
}

// ToUseCaseRequest converts the HTTP request into the use case model,
// parsing date and time.
func (r *CreateReservationRequest) ToUseCaseRequest() (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		EstablishmentID: r.EstablishmentID,
		ServiceID:       r.ServiceID,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		Date:            date,
		StartTime:       startTime,
		CouponCode:      r.CouponCode,
	}, nil
}

// FromUseCaseResponse converts the use case answer into the HTTP response.
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	local := resp.ScheduledAt
	return &ReservationResponse{
		AppointmentID:   resp.AppointmentID,
		EstablishmentID: resp.EstablishmentID,
		ServiceID:       resp.ServiceID,
		ServiceName:     resp.ServiceName,
		Date:            local.Format(domain.DateFormat),
		StartTime:       local.Format(domain.TimeFormat),
		DurationMinutes: resp.DurationMinutes,
		Price:           resp.Price,
		DiscountAmount:  resp.DiscountAmount,
		DiscountCode:    resp.DiscountCode,
		FinalPrice:      resp.FinalPrice,
		Status:          resp.Status,
		RequiresDeposit: resp.RequiresDeposit,
		DepositAmount:   resp.DepositAmount,
	}
}
