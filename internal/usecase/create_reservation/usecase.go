package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/integrations/notifier"
	settingsClient "github.com/agendafacil/booking-service/internal/integrations/settingsservice"
	"github.com/agendafacil/booking-service/internal/service/pricing"
)

// UseCase coordinates reservation creation. Calendar checks run outside the
// transaction on an immutable settings snapshot; the capacity count and the
// insert share one SERIALIZABLE transaction, which is the only serializing
// write in the flow. Two concurrent requests for the last spot both count,
// one commits, the other retries and sees the slot full.
type UseCase struct {
	apptRepo       AppointmentRepository
	couponRepo     CouponRepository
	pricingService PricingService
	settingsClient SettingsClient
	txManager      TxManager
	notifier       Notifier
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase creates the use case.
func NewUseCase(
	apptRepo AppointmentRepository,
	couponRepo CouponRepository,
	pricingService PricingService,
	settings SettingsClient,
	txManager TxManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:       apptRepo,
		couponRepo:     couponRepo,
		pricingService: pricingService,
		settingsClient: settings,
		txManager:      txManager,
		notifier:       notifier,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute runs the use case.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: establishment=%d, service=%d, date=%s, time=%s",
		req.EstablishmentID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Validate input.
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Fetch the establishment snapshot.
	est, err := uc.settingsClient.GetEstablishment(ctx, req.EstablishmentID)
	if err != nil {
		if errors.Is(err, settingsClient.ErrEstablishmentNotFound) {
			uc.logger.Warn("CreateReservation: establishment id=%d not found", req.EstablishmentID)
			return nil, ErrEstablishmentNotFound
		}
		uc.logger.Error("CreateReservation: failed to get establishment id=%d: %v", req.EstablishmentID, err)
		return nil, fmt.Errorf("%w: failed to get establishment: %v", ErrInternal, err)
	}

	// 3. Fetch and validate the service.
	svc, err := uc.settingsClient.GetService(ctx, req.EstablishmentID, req.ServiceID)
	if err != nil {
		if errors.Is(err, settingsClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateReservation: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateReservation: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !svc.Active || svc.EstablishmentID != est.ID {
		uc.logger.Warn("CreateReservation: service id=%d inactive or not owned by establishment id=%d",
			req.ServiceID, req.EstablishmentID)
		return nil, ErrServiceInactive
	}

	// 4. Classify the day and slot against the calendar. Occupied is not
	// rejected here: only the count inside the transaction decides fullness.
	blocks, err := uc.settingsClient.GetCalendarBlocks(ctx, req.EstablishmentID, req.Date, req.Date)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get calendar blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get calendar blocks: %v", ErrInternal, err)
	}
	if err := uc.classifyTarget(est, blocks, req, now); err != nil {
		uc.logger.Warn("CreateReservation: slot rejected: %v", err)
		return nil, err
	}

	// 5. Validate the instant against the booking window and alignment.
	scheduledAt, err := validateSlotPlacement(est, req, now)
	if err != nil {
		uc.logger.Warn("CreateReservation: placement rejected: %v", err)
		return nil, err
	}

	// 6. Reserve inside the critical section: re-count, re-quote, insert.
	requiresDeposit := est.FeeEnabled
	var appt *domain.Appointment
	var quote *pricing.Quote

	txErr := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		count, err := uc.apptRepo.CountActiveAtSlot(txCtx, est.ID, scheduledAt)
		if err != nil {
			return fmt.Errorf("%w: failed to count slot occupancy: %w", ErrInternal, err)
		}
		if count >= est.Capacity() {
			return ErrSlotFull
		}

		quote, err = uc.pricingService.Quote(txCtx, est, svc, req.CouponCode, now)
		if err != nil {
			return err
		}

		status := domain.StatusConfirmed
		if requiresDeposit {
			status = domain.StatusPending
		}

		appt, err = uc.apptRepo.Create(txCtx, &domain.Appointment{
			EstablishmentID: est.ID,
			ServiceID:       svc.ID,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			ScheduledAt:     scheduledAt,
			ServiceName:     svc.Name,
			DurationMinutes: est.Granularity(),
			Price:           quote.Price,
			DiscountAmount:  quote.DiscountAmount,
			DiscountCode:    quote.DiscountCode,
			FinalPrice:      quote.FinalPrice,
			Status:          status,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		// Coupon usage is consumed only when the reservation confirms
		// immediately; deposit-gated reservations consume it on payment.
		if status == domain.StatusConfirmed && quote.CouponID != nil {
			if err := uc.couponRepo.IncrementUsage(txCtx, *quote.CouponID); err != nil {
				return fmt.Errorf("%w: failed to increment coupon usage: %w", ErrInternal, err)
			}
		}

		return nil
	})
	if txErr != nil {
		if isBusinessError(txErr) {
			uc.logger.Warn("CreateReservation: rejected: %v", txErr)
			return nil, txErr
		}
		if isCouponError(txErr) {
			uc.logger.Warn("CreateReservation: coupon rejected: %v", txErr)
			return nil, fmt.Errorf("%w: %v", ErrCouponRejected, txErr)
		}
		uc.logger.Error("CreateReservation: transaction failed: %v", txErr)
		return nil, fmt.Errorf("%w: reservation transaction failed: %v", ErrInternal, txErr)
	}

	uc.logger.Info("CreateReservation: created appointment id=%d, status=%s", appt.ID, appt.Status)

	// 7. Announce immediately confirmed reservations.
	if appt.Status == domain.StatusConfirmed {
		uc.notifier.Dispatch(notifier.Event{
			AppointmentID: appt.ID,
			NewStatus:     string(domain.StatusConfirmed),
		})
	}

	return &Response{
		AppointmentID:   appt.ID,
		EstablishmentID: appt.EstablishmentID,
		ServiceID:       appt.ServiceID,
		ServiceName:     appt.ServiceName,
		ScheduledAt:     appt.ScheduledAt,
		DurationMinutes: appt.DurationMinutes,
		Price:           appt.Price,
		DiscountAmount:  appt.DiscountAmount,
		DiscountCode:    appt.DiscountCode,
		FinalPrice:      appt.FinalPrice,
		Status:          string(appt.Status),
		RequiresDeposit: requiresDeposit,
		DepositAmount:   est.DepositAmount(appt.FinalPrice),
	}, nil
}

// classifyTarget maps calendar classifications to reservation rejections.
func (uc *UseCase) classifyTarget(est *domain.Establishment, blocks domain.CalendarBlocks, req *Request, now time.Time) error {
	switch domain.ClassifyDay(est, blocks, req.Date, now) {
	case domain.DayBlocked:
		return ErrSlotBlocked
	case domain.DayClosed:
		return ErrSlotClosed
	case domain.DayPast:
		return ErrSlotInPast
	}

	status, err := domain.ClassifySlot(est, blocks, req.Date, req.StartTime, now)
	if err != nil {
		return fmt.Errorf("%w: failed to classify slot: %v", ErrInternal, err)
	}
	switch status {
	case domain.SlotBlocked:
		return ErrSlotBlocked
	case domain.SlotPast:
		return ErrSlotInPast
	}
	return nil
}

func isBusinessError(err error) bool {
	return errors.Is(err, ErrSlotFull)
}

func isCouponError(err error) bool {
	return errors.Is(err, pricing.ErrCouponNotFound) ||
		errors.Is(err, pricing.ErrCouponInactive) ||
		errors.Is(err, pricing.ErrCouponNotYetValid) ||
		errors.Is(err, pricing.ErrCouponExpired) ||
		errors.Is(err, pricing.ErrCouponExhausted)
}
