package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
	settingsClient "github.com/agendafacil/booking-service/internal/integrations/settingsservice"
)

// UseCase computes the day-level availability map for a calendar range.
// A day comes back available only when at least one of its slots is still
// free: open days with every slot taken report closed, so calendar widgets
// can grey them out without fetching the slot list.
type UseCase struct {
	apptRepo       AppointmentRepository
	settingsClient SettingsClient
	timeProvider   TimeProvider
	logger         Logger
	maxRangeDays   int
}

// NewUseCase creates the use case. maxRangeDays caps the request span.
func NewUseCase(apptRepo AppointmentRepository, settings SettingsClient, logger Logger, maxRangeDays int) *UseCase {
	return &UseCase{
		apptRepo:       apptRepo,
		settingsClient: settings,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
		maxRangeDays:   maxRangeDays,
	}
}

// Execute runs the use case.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: establishment=%d, service=%d, from=%s, to=%s",
		req.EstablishmentID, req.ServiceID,
		req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	// 1. Validate input and range length.
	if err := uc.validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Fetch the establishment snapshot.
	est, err := uc.settingsClient.GetEstablishment(ctx, req.EstablishmentID)
	if err != nil {
		if errors.Is(err, settingsClient.ErrEstablishmentNotFound) {
			uc.logger.Warn("GetAvailability: establishment id=%d not found", req.EstablishmentID)
			return nil, ErrEstablishmentNotFound
		}
		uc.logger.Error("GetAvailability: failed to get establishment id=%d: %v", req.EstablishmentID, err)
		return nil, fmt.Errorf("%w: failed to get establishment: %v", ErrInternal, err)
	}

	// 3. Fetch and validate the service.
	svc, err := uc.settingsClient.GetService(ctx, req.EstablishmentID, req.ServiceID)
	if err != nil {
		if errors.Is(err, settingsClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !svc.Active || svc.EstablishmentID != est.ID {
		uc.logger.Warn("GetAvailability: service id=%d inactive or not owned by establishment id=%d",
			req.ServiceID, req.EstablishmentID)
		return nil, ErrServiceInactive
	}

	loc := est.Location()
	from := domain.DateOnly(req.From, loc)
	to := domain.DateOnly(req.To, loc)

	// 4. Fetch calendar blocks and occupancy for the whole range up front.
	blocks, err := uc.settingsClient.GetCalendarBlocks(ctx, req.EstablishmentID, from, to)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get calendar blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get calendar blocks: %v", ErrInternal, err)
	}

	counts, err := uc.apptRepo.SlotCounts(ctx, est.ID, from.UTC(), to.AddDate(0, 0, 1).UTC())
	if err != nil {
		uc.logger.Error("GetAvailability: failed to count appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to count appointments: %v", ErrInternal, err)
	}

	// 5. Classify each day in order.
	days := make([]Day, 0, int(to.Sub(from).Hours()/24)+1)
	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		status, err := uc.classifyDay(est, blocks, date, now, counts)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to classify day %s: %v", date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: failed to classify day: %v", ErrInternal, err)
		}
		days = append(days, Day{Date: date, Status: string(status)})
	}

	uc.logger.Info("GetAvailability: classified %d days for establishment=%d", len(days), req.EstablishmentID)

	return &Response{
		EstablishmentID: req.EstablishmentID,
		ServiceID:       req.ServiceID,
		Days:            days,
	}, nil
}

func (uc *UseCase) validateRequest(req *Request) error {
	if req.EstablishmentID <= 0 {
		return fmt.Errorf("%w: establishmentID must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to dates are required", ErrInvalidInput)
	}
	if req.To.Before(req.From) {
		return fmt.Errorf("%w: to must not precede from", ErrInvalidRange)
	}
	if span := int(req.To.Sub(req.From).Hours()/24) + 1; span > uc.maxRangeDays {
		return fmt.Errorf("%w: range of %d days exceeds the limit of %d", ErrInvalidRange, span, uc.maxRangeDays)
	}
	return nil
}

// classifyDay resolves the day status; days that pass the calendar check but
// have no free slot left report closed.
func (uc *UseCase) classifyDay(est *domain.Establishment, blocks domain.CalendarBlocks, date, now time.Time, counts map[time.Time]int) (domain.DayStatus, error) {
	status := domain.ClassifyDay(est, blocks, date, now)
	if status != domain.DayAvailable {
		return status, nil
	}

	slots, err := domain.ComputeDaySlots(est, blocks, date, now, counts)
	if err != nil {
		return "", err
	}
	return domain.DayStatusFromSlots(status, slots), nil
}
