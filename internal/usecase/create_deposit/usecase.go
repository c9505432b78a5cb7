package create_deposit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/integrations/pixgateway"
	settingsClient "github.com/agendafacil/booking-service/internal/integrations/settingsservice"
	apptRepo "github.com/agendafacil/booking-service/internal/infra/storage/appointment"
	txRepo "github.com/agendafacil/booking-service/internal/infra/storage/transaction"
)

// chargeNamespace seeds the deterministic idempotency key. Derived from the
// service DNS name once; never change it or retried client calls stop
// deduplicating against charges created before the change.
var chargeNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("payments.agendafacil.com.br"))

// UseCase creates the PIX deposit charge for a pending appointment. The
// idempotency key is derived from the appointment id, so a client retrying
// after a lost response hits the same gateway charge. When a non-terminal
// transaction already exists locally it is returned as-is without touching
// the gateway.
type UseCase struct {
	apptRepo       AppointmentRepository
	txRepo         TransactionRepository
	settingsClient SettingsClient
	gateway        PaymentGateway
	chargeTTL      time.Duration
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase creates the use case. chargeTTL is how long a charge stays
// payable before the sweeper expires it.
func NewUseCase(
	appointments AppointmentRepository,
	transactions TransactionRepository,
	settings SettingsClient,
	gateway PaymentGateway,
	chargeTTL time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:       appointments,
		txRepo:         transactions,
		settingsClient: settings,
		gateway:        gateway,
		chargeTTL:      chargeTTL,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute runs the use case.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateDeposit: appointment=%d", req.AppointmentID)

	// 1. Validate input.
	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	// 2. The appointment must still be waiting on its deposit.
	appt, err := uc.apptRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CreateDeposit: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("CreateDeposit: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	if !appt.RequiresDeposit() {
		uc.logger.Warn("CreateDeposit: appointment id=%d has status %s", appt.ID, appt.Status)
		return nil, ErrAppointmentNotPending
	}

	// 3. An existing active transaction is the idempotent answer.
	existing, err := uc.txRepo.GetActiveByAppointmentID(ctx, appt.ID)
	if err == nil {
		uc.logger.Info("CreateDeposit: returning existing transaction id=%d for appointment=%d",
			existing.ID, appt.ID)
		return toResponse(existing, true), nil
	}
	if !errors.Is(err, txRepo.ErrTransactionNotFound) {
		uc.logger.Error("CreateDeposit: failed to look up active transaction: %v", err)
		return nil, fmt.Errorf("%w: failed to look up active transaction: %v", ErrInternal, err)
	}

	// 4. Resolve the deposit amount from the establishment's fee policy.
	est, err := uc.settingsClient.GetEstablishment(ctx, appt.EstablishmentID)
	if err != nil {
		if errors.Is(err, settingsClient.ErrEstablishmentNotFound) {
			uc.logger.Warn("CreateDeposit: establishment id=%d not found", appt.EstablishmentID)
			return nil, ErrEstablishmentNotFound
		}
		uc.logger.Error("CreateDeposit: failed to get establishment id=%d: %v", appt.EstablishmentID, err)
		return nil, fmt.Errorf("%w: failed to get establishment: %v", ErrInternal, err)
	}

	amount := est.DepositAmount(appt.FinalPrice)
	if amount <= 0 {
		uc.logger.Warn("CreateDeposit: establishment id=%d has no deposit fee", est.ID)
		return nil, ErrDepositNotRequired
	}

	// 5. Create the charge at the gateway with a deterministic key.
	key := uuid.NewSHA1(chargeNamespace, []byte(fmt.Sprintf("appointment:%d", appt.ID))).String()

	charge, err := uc.gateway.CreateCharge(ctx, pixgateway.ChargeRequest{
		Amount:         amount,
		IdempotencyKey: key,
		ExpiresIn:      int(uc.chargeTTL.Seconds()),
		Metadata: map[string]string{
			"appointmentId": fmt.Sprintf("%d", appt.ID),
		},
	})
	if err != nil {
		// No local row is written: the next attempt redoes the whole flow
		// and the idempotency key keeps the gateway side single.
		uc.logger.Error("CreateDeposit: gateway charge failed for appointment=%d: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	// 6. Persist the transaction.
	expiresAt := charge.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = uc.timeProvider.Now().Add(uc.chargeTTL)
	}

	tx, err := uc.txRepo.Create(ctx, &domain.Transaction{
		AppointmentID:  appt.ID,
		GatewayRef:     charge.Ref,
		IdempotencyKey: key,
		Amount:         amount,
		QRPayload:      charge.QRPayload,
		PaymentStatus:  pixgateway.MapStatus(charge.Status),
		ExpiresAt:      expiresAt,
	})
	if err != nil {
		if errors.Is(err, txRepo.ErrDuplicateTransaction) {
			// A concurrent request won the insert race. The gateway deduped
			// the charge on the idempotency key, so the stored row is the
			// same charge; return it.
			existing, lookupErr := uc.txRepo.GetActiveByAppointmentID(ctx, appt.ID)
			if lookupErr != nil {
				uc.logger.Error("CreateDeposit: duplicate insert for appointment=%d but lookup failed: %v", appt.ID, lookupErr)
				return nil, fmt.Errorf("%w: failed to look up winning transaction: %v", ErrInternal, lookupErr)
			}
			uc.logger.Info("CreateDeposit: lost insert race for appointment=%d, returning transaction id=%d",
				appt.ID, existing.ID)
			return toResponse(existing, true), nil
		}
		uc.logger.Error("CreateDeposit: failed to persist transaction for appointment=%d: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: failed to persist transaction: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateDeposit: created transaction id=%d, ref=%s, amount=%.2f", tx.ID, tx.GatewayRef, tx.Amount)

	return toResponse(tx, false), nil
}

func toResponse(tx *domain.Transaction, existed bool) *Response {
	return &Response{
		TransactionID: tx.ID,
		GatewayRef:    tx.GatewayRef,
		Amount:        tx.Amount,
		QRPayload:     tx.QRPayload,
		PaymentStatus: string(tx.PaymentStatus),
		ExpiresAt:     tx.ExpiresAt,
		AlreadyExists: existed,
	}
}
