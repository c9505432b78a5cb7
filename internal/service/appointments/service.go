package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/agendafacil/booking-service/internal/domain"
	apptRepo "github.com/agendafacil/booking-service/internal/infra/storage/appointment"
	"github.com/agendafacil/booking-service/internal/integrations/notifier"
	"github.com/agendafacil/booking-service/internal/service/appointments/models"
)

// Service handles appointment reads and manual cancellation. Automatic
// status transitions (payment confirmation, expiry) live in the payment
// usecases; this service only covers what customers and establishments do by
// hand.
type Service struct {
	apptRepo AppointmentRepository
	notifier Notifier
	logger   Logger
}

// NewService creates an appointments service.
func NewService(apptRepo AppointmentRepository, n Notifier, logger Logger) *Service {
	return &Service{
		apptRepo: apptRepo,
		notifier: n,
		logger:   logger,
	}
}

// GetByID fetches an appointment.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// Cancel cancels a pending or confirmed appointment, releasing its slot.
// Cancelling is terminal: the appointment stops counting toward capacity and
// the notifier is told about the change.
func (s *Service) Cancel(ctx context.Context, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d byCustomer=%t", req.AppointmentID, req.ByCustomer)

	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	appt, err := s.apptRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d in status %s cannot be cancelled", appt.ID, appt.Status)
		return nil, ErrCannotCancel
	}

	reason := domain.ReasonCancelledByEstablishment
	if req.ByCustomer {
		reason = domain.ReasonCancelledByCustomer
	}

	if err := s.apptRepo.UpdateStatus(ctx, appt.ID, domain.StatusCancelled, &reason); err != nil {
		s.logger.Error("Cancel: failed to update appointment id=%d: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: Cancel - failed to update status: %v", ErrInternal, err)
	}

	appt.Status = domain.StatusCancelled
	appt.CancellationReason = &reason

	s.notifier.Dispatch(notifier.Event{
		AppointmentID: appt.ID,
		NewStatus:     string(domain.StatusCancelled),
		Reason:        reason,
	})

	s.logger.Info("Cancel: appointment id=%d cancelled (%s)", appt.ID, reason)
	return models.FromDomainAppointment(appt), nil
}
