package expire_transactions

import (
	"context"
	"fmt"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/usecase/ingest_payment_status"
)

// batchSize bounds how many overdue transactions one sweep processes; the
// next tick picks up the remainder.
const batchSize = 100

// UseCase is the timeout sweep. Charges still non-terminal past their
// expires_at are pushed through the ingest transition as expired, which
// cancels the appointment with a payment_timeout reason and frees the slot.
// Re-running the sweep is safe: terminal rows no longer match the listing,
// and the transition itself is gated.
type UseCase struct {
	txRepo       TransactionRepository
	ingester     StatusIngester
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase creates the sweeper.
func NewUseCase(transactions TransactionRepository, ingester StatusIngester, logger Logger) *UseCase {
	return &UseCase{
		txRepo:       transactions,
		ingester:     ingester,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute runs one sweep and returns how many transactions were expired.
func (uc *UseCase) Execute(ctx context.Context) (int, error) {
	now := uc.timeProvider.Now()

	overdue, err := uc.txRepo.ListExpired(ctx, now, batchSize)
	if err != nil {
		uc.logger.Error("ExpireTransactions: failed to list overdue transactions: %v", err)
		return 0, fmt.Errorf("%w: failed to list overdue transactions: %v", ErrInternal, err)
	}
	if len(overdue) == 0 {
		return 0, nil
	}

	uc.logger.Info("ExpireTransactions: sweeping %d overdue transactions", len(overdue))

	expired := 0
	for _, tx := range overdue {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}

		res, err := uc.ingester.Execute(ctx, &ingest_payment_status.Request{
			GatewayRef: tx.GatewayRef,
			Status:     string(domain.PaymentExpired),
		})
		if err != nil {
			// One stuck row must not stall the rest of the batch.
			uc.logger.Error("ExpireTransactions: failed to expire ref=%s: %v", tx.GatewayRef, err)
			continue
		}
		if res.Applied {
			expired++
		}
	}

	uc.logger.Info("ExpireTransactions: expired %d/%d transactions", expired, len(overdue))
	return expired, nil
}
