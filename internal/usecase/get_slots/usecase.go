package get_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
	settingsClient "github.com/agendafacil/booking-service/internal/integrations/settingsservice"
)

// UseCase produces the per-slot availability of a single day. It is
// read-only and never enters the reservation critical section: occupancy
// comes from one grouped count query and can be stale by the time the client
// books, which the reservation flow re-validates anyway.
type UseCase struct {
	apptRepo       AppointmentRepository
	settingsClient SettingsClient
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase creates the use case.
func NewUseCase(apptRepo AppointmentRepository, settings SettingsClient, logger Logger) *UseCase {
	return &UseCase{
		apptRepo:       apptRepo,
		settingsClient: settings,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute runs the use case.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetSlots: establishment=%d, service=%d, date=%s",
		req.EstablishmentID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Validate input.
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Fetch the establishment snapshot.
	est, err := uc.settingsClient.GetEstablishment(ctx, req.EstablishmentID)
	if err != nil {
		if errors.Is(err, settingsClient.ErrEstablishmentNotFound) {
			uc.logger.Warn("GetSlots: establishment id=%d not found", req.EstablishmentID)
			return nil, ErrEstablishmentNotFound
		}
		uc.logger.Error("GetSlots: failed to get establishment id=%d: %v", req.EstablishmentID, err)
		return nil, fmt.Errorf("%w: failed to get establishment: %v", ErrInternal, err)
	}

	// 3. Fetch and validate the service.
	svc, err := uc.settingsClient.GetService(ctx, req.EstablishmentID, req.ServiceID)
	if err != nil {
		if errors.Is(err, settingsClient.ErrServiceNotFound) {
			uc.logger.Warn("GetSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !svc.Active || svc.EstablishmentID != est.ID {
		uc.logger.Warn("GetSlots: service id=%d inactive or not owned by establishment id=%d",
			req.ServiceID, req.EstablishmentID)
		return nil, ErrServiceInactive
	}

	// 4. Reject dates entirely outside the booking window.
	if err := validateDateInWindow(est, req.Date, now); err != nil {
		uc.logger.Warn("GetSlots: date validation failed: %v", err)
		return nil, err
	}

	// 5. Fetch the calendar blocks for the day.
	blocks, err := uc.settingsClient.GetCalendarBlocks(ctx, req.EstablishmentID, req.Date, req.Date)
	if err != nil {
		uc.logger.Error("GetSlots: failed to get calendar blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get calendar blocks: %v", ErrInternal, err)
	}

	// 6. Classify the day; blocked/closed/past days carry no slot list.
	dayStatus := domain.ClassifyDay(est, blocks, req.Date, now)
	if dayStatus != domain.DayAvailable {
		uc.logger.Info("GetSlots: day %s classified as %s", req.Date.Format(domain.DateFormat), dayStatus)
		return &Response{
			EstablishmentID: req.EstablishmentID,
			ServiceID:       req.ServiceID,
			Date:            req.Date,
			DayStatus:       string(dayStatus),
			Slots:           []Slot{},
		}, nil
	}

	// 7. Load occupancy counts for the whole day with one query.
	counts, err := uc.slotCountsForDay(ctx, est, req.Date)
	if err != nil {
		uc.logger.Error("GetSlots: failed to count appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to count appointments: %v", ErrInternal, err)
	}

	// 8. Compute slot statuses.
	slots, err := domain.ComputeDaySlots(est, blocks, req.Date, now, counts)
	if err != nil {
		uc.logger.Error("GetSlots: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetSlots: generated %d slots for establishment=%d, date=%s",
		len(slots), req.EstablishmentID, req.Date.Format(domain.DateFormat))

	return &Response{
		EstablishmentID: req.EstablishmentID,
		ServiceID:       req.ServiceID,
		Date:            req.Date,
		DayStatus:       string(domain.DayStatusFromSlots(dayStatus, slots)),
		Slots:           toSlotModels(est, slots),
	}, nil
}

// slotCountsForDay queries the appointment counts for the local day,
// converted to UTC instants.
func (uc *UseCase) slotCountsForDay(ctx context.Context, est *domain.Establishment, date time.Time) (map[time.Time]int, error) {
	loc := est.Location()
	dayStart := domain.DateOnly(date, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	return uc.apptRepo.SlotCounts(ctx, est.ID, dayStart.UTC(), dayEnd.UTC())
}

func toSlotModels(est *domain.Establishment, slots []domain.SlotInfo) []Slot {
	out := make([]Slot, len(slots))
	for i, s := range slots {
		available := s.Capacity - s.Occupied
		if available < 0 || s.Status != domain.SlotAvailable {
			available = 0
		}
		out[i] = Slot{
			StartTime:       s.Start,
			DurationMinutes: est.Granularity(),
			Status:          string(s.Status),
			AvailableSpots:  available,
			TotalSpots:      s.Capacity,
		}
	}
	return out
}
