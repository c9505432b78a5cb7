package ingest_payment_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/integrations/notifier"
	"github.com/agendafacil/booking-service/internal/integrations/pixgateway"
	txRepo "github.com/agendafacil/booking-service/internal/infra/storage/transaction"
	"github.com/agendafacil/booking-service/pkg/ptr"
)

// UseCase applies a payment status observation. Webhook pushes and status
// polls both land here, so the two paths cannot diverge. The transition is
// gated on the stored status being non-terminal; a duplicate delivery of a
// terminal status is answered with the stored state and no side effects.
type UseCase struct {
	txRepo     TransactionRepository
	apptRepo   AppointmentRepository
	couponRepo CouponRepository
	txManager  TxManager
	notifier   Notifier
	logger     Logger
}

// NewUseCase creates the use case.
func NewUseCase(
	transactions TransactionRepository,
	appointments AppointmentRepository,
	coupons CouponRepository,
	txManager TxManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		txRepo:     transactions,
		apptRepo:   appointments,
		couponRepo: coupons,
		txManager:  txManager,
		notifier:   notifier,
		logger:     logger,
	}
}

// Execute runs the use case.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("IngestPaymentStatus: ref=%s, status=%s", req.GatewayRef, req.Status)

	// 1. Validate input. Unknown status strings map to pending, which the
	// gate below turns into a harmless non-transition.
	if req.GatewayRef == "" {
		return nil, fmt.Errorf("%w: gatewayRef is required", ErrInvalidInput)
	}
	status := pixgateway.MapStatus(req.Status)

	var (
		tx      *domain.Transaction
		applied bool
		event   *notifier.Event
	)

	// 2. Gate the transition and run its appointment side effects in one
	// transaction, so a crash cannot confirm a payment without moving the
	// appointment.
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		tx, err = uc.txRepo.ApplyStatusIfPending(txCtx, req.GatewayRef, status)
		if errors.Is(err, txRepo.ErrAlreadyTerminal) {
			applied = false
			tx, err = uc.txRepo.GetByRef(txCtx, req.GatewayRef)
			if err != nil {
				return fmt.Errorf("%w: failed to read transaction: %w", ErrInternal, err)
			}
			return nil
		}
		if errors.Is(err, txRepo.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: failed to apply status: %w", ErrInternal, err)
		}
		applied = true

		if !status.IsTerminal() {
			return nil
		}

		event, err = uc.applyAppointmentEffects(txCtx, tx, status)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			uc.logger.Warn("IngestPaymentStatus: transaction ref=%s not found", req.GatewayRef)
			return nil, ErrTransactionNotFound
		}
		uc.logger.Error("IngestPaymentStatus: failed for ref=%s: %v", req.GatewayRef, err)
		return nil, err
	}

	if !applied {
		uc.logger.Info("IngestPaymentStatus: ref=%s already terminal (%s), ignoring %s",
			req.GatewayRef, tx.PaymentStatus, status)
	}

	// 3. Announce the appointment transition after commit.
	if event != nil {
		uc.notifier.Dispatch(*event)
	}

	return &Response{
		GatewayRef:    tx.GatewayRef,
		PaymentStatus: string(tx.PaymentStatus),
		Applied:       applied,
	}, nil
}

// applyAppointmentEffects moves the appointment in reaction to a terminal
// payment status. Returns the event to dispatch after commit, if any.
func (uc *UseCase) applyAppointmentEffects(ctx context.Context, tx *domain.Transaction, status domain.PaymentStatus) (*notifier.Event, error) {
	appt, err := uc.apptRepo.GetByID(ctx, tx.AppointmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get appointment id=%d: %w", ErrInternal, tx.AppointmentID, err)
	}

	// Only pending appointments react to payment outcomes; anything else
	// was already resolved by another path.
	if appt.Status != domain.StatusPending {
		uc.logger.Warn("IngestPaymentStatus: appointment id=%d is %s, skipping effects", appt.ID, appt.Status)
		return nil, nil
	}

	switch status {
	case domain.PaymentPaid:
		if err := uc.apptRepo.UpdateStatus(ctx, appt.ID, domain.StatusConfirmed, nil); err != nil {
			return nil, fmt.Errorf("%w: failed to confirm appointment id=%d: %w", ErrInternal, appt.ID, err)
		}
		uc.consumeCoupon(ctx, appt)
		return &notifier.Event{
			AppointmentID: appt.ID,
			NewStatus:     string(domain.StatusConfirmed),
		}, nil

	case domain.PaymentRejected:
		reason := ptr.Ptr(domain.ReasonPaymentRejected)
		if err := uc.apptRepo.UpdateStatus(ctx, appt.ID, domain.StatusCancelled, reason); err != nil {
			return nil, fmt.Errorf("%w: failed to cancel appointment id=%d: %w", ErrInternal, appt.ID, err)
		}
		return &notifier.Event{
			AppointmentID: appt.ID,
			NewStatus:     string(domain.StatusCancelled),
			Reason:        domain.ReasonPaymentRejected,
		}, nil

	case domain.PaymentExpired:
		reason := ptr.Ptr(domain.ReasonPaymentTimeout)
		if err := uc.apptRepo.UpdateStatus(ctx, appt.ID, domain.StatusCancelled, reason); err != nil {
			return nil, fmt.Errorf("%w: failed to cancel appointment id=%d: %w", ErrInternal, appt.ID, err)
		}
		return &notifier.Event{
			AppointmentID: appt.ID,
			NewStatus:     string(domain.StatusCancelled),
			Reason:        domain.ReasonPaymentTimeout,
		}, nil
	}

	return nil, nil
}

// consumeCoupon increments usage for the coupon snapshotted on the
// appointment. The payment has already succeeded at this point, so a coupon
// that meanwhile hit its limit is logged and forgiven rather than failing
// the confirmation.
func (uc *UseCase) consumeCoupon(ctx context.Context, appt *domain.Appointment) {
	if appt.DiscountCode == nil {
		return
	}

	coupon, err := uc.couponRepo.GetByCode(ctx, appt.EstablishmentID, *appt.DiscountCode)
	if err != nil {
		uc.logger.Warn("IngestPaymentStatus: coupon %q vanished for appointment id=%d: %v",
			*appt.DiscountCode, appt.ID, err)
		return
	}
	if err := uc.couponRepo.IncrementUsage(ctx, coupon.ID); err != nil {
		uc.logger.Warn("IngestPaymentStatus: failed to increment coupon %q usage: %v", coupon.Code, err)
	}
}
