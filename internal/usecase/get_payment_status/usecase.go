package get_payment_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/agendafacil/booking-service/internal/domain"
	txRepo "github.com/agendafacil/booking-service/internal/infra/storage/transaction"
	"github.com/agendafacil/booking-service/internal/usecase/ingest_payment_status"
)

// UseCase answers payment status queries. Stored terminal states are
// returned directly; a still-pending charge triggers a gateway poll, and any
// terminal answer goes through the ingest transition so the poll path lands
// in exactly the state a webhook delivery would have produced.
type UseCase struct {
	txRepo   TransactionRepository
	gateway  PaymentGateway
	ingester StatusIngester
	logger   Logger
}

// NewUseCase creates the use case.
func NewUseCase(transactions TransactionRepository, gateway PaymentGateway, ingester StatusIngester, logger Logger) *UseCase {
	return &UseCase{
		txRepo:   transactions,
		gateway:  gateway,
		ingester: ingester,
		logger:   logger,
	}
}

// Execute runs the use case.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Validate input.
	if req.GatewayRef == "" {
		return nil, fmt.Errorf("%w: gatewayRef is required", ErrInvalidInput)
	}

	// 2. Load the stored transaction.
	tx, err := uc.txRepo.GetByRef(ctx, req.GatewayRef)
	if err != nil {
		if errors.Is(err, txRepo.ErrTransactionNotFound) {
			uc.logger.Warn("GetPaymentStatus: transaction ref=%s not found", req.GatewayRef)
			return nil, ErrTransactionNotFound
		}
		uc.logger.Error("GetPaymentStatus: failed to get transaction ref=%s: %v", req.GatewayRef, err)
		return nil, fmt.Errorf("%w: failed to get transaction: %v", ErrInternal, err)
	}

	if tx.PaymentStatus.IsTerminal() {
		return toResponse(tx), nil
	}

	// 3. Still pending locally: ask the gateway.
	polled, err := uc.gateway.GetStatus(ctx, tx.GatewayRef)
	if err != nil {
		// The stored state is still a correct answer; the webhook or the
		// next poll will catch up.
		uc.logger.Warn("GetPaymentStatus: gateway poll failed for ref=%s: %v", tx.GatewayRef, err)
		return toResponse(tx), nil
	}
	if !polled.IsTerminal() {
		return toResponse(tx), nil
	}

	// 4. Funnel the terminal answer through the shared transition.
	ingested, err := uc.ingester.Execute(ctx, &ingest_payment_status.Request{
		GatewayRef: tx.GatewayRef,
		Status:     string(polled),
	})
	if err != nil {
		uc.logger.Error("GetPaymentStatus: failed to ingest polled status %s for ref=%s: %v",
			polled, tx.GatewayRef, err)
		return toResponse(tx), nil
	}

	tx.PaymentStatus = domain.PaymentStatus(ingested.PaymentStatus)
	return toResponse(tx), nil
}

func toResponse(tx *domain.Transaction) *Response {
	return &Response{
		GatewayRef:    tx.GatewayRef,
		AppointmentID: tx.AppointmentID,
		Amount:        tx.Amount,
		PaymentStatus: string(tx.PaymentStatus),
		ExpiresAt:     tx.ExpiresAt,
	}
}
