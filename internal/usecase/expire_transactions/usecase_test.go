package expire_transactions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/booking-service/internal/domain"
	"github.com/agendafacil/booking-service/internal/usecase/ingest_payment_status"
)

type fakeTxRepo struct {
	overdue []*domain.Transaction
	err     error
}

func (f *fakeTxRepo) ListExpired(ctx context.Context, now time.Time, limit uint64) ([]*domain.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.overdue, nil
}

type fakeIngester struct {
	requests []*ingest_payment_status.Request
	applied  map[string]bool
	err      error
}

func (f *fakeIngester) Execute(ctx context.Context, req *ingest_payment_status.Request) (*ingest_payment_status.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &ingest_payment_status.Response{
		GatewayRef:    req.GatewayRef,
		PaymentStatus: req.Status,
		Applied:       f.applied[req.GatewayRef],
	}, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func overdueTx(ref string) *domain.Transaction {
	return &domain.Transaction{
		GatewayRef:    ref,
		PaymentStatus: domain.PaymentPending,
		ExpiresAt:     time.Now().Add(-time.Minute),
	}
}

func TestExecuteExpiresOverdueTransactions(t *testing.T) {
	transactions := &fakeTxRepo{overdue: []*domain.Transaction{
		overdueTx("pix-1"),
		overdueTx("pix-2"),
	}}
	ingester := &fakeIngester{applied: map[string]bool{"pix-1": true, "pix-2": true}}
	uc := NewUseCase(transactions, ingester, nopLogger{})

	expired, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, expired)
	require.Len(t, ingester.requests, 2)
	assert.Equal(t, string(domain.PaymentExpired), ingester.requests[0].Status)
	assert.Equal(t, string(domain.PaymentExpired), ingester.requests[1].Status)
}

func TestExecuteNothingOverdue(t *testing.T) {
	uc := NewUseCase(&fakeTxRepo{}, &fakeIngester{}, nopLogger{})

	expired, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, expired)
}

func TestExecuteCountsOnlyAppliedTransitions(t *testing.T) {
	transactions := &fakeTxRepo{overdue: []*domain.Transaction{
		overdueTx("pix-1"),
		overdueTx("pix-2"),
	}}
	// pix-2 raced with a webhook and is already terminal.
	ingester := &fakeIngester{applied: map[string]bool{"pix-1": true}}
	uc := NewUseCase(transactions, ingester, nopLogger{})

	expired, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
}

func TestExecuteOneFailureDoesNotStallTheBatch(t *testing.T) {
	transactions := &fakeTxRepo{overdue: []*domain.Transaction{
		overdueTx("pix-1"),
		overdueTx("pix-2"),
	}}
	ingester := &fakeIngester{err: ingest_payment_status.ErrInternal}
	uc := NewUseCase(transactions, ingester, nopLogger{})

	expired, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, expired)
	assert.Len(t, ingester.requests, 2, "both rows attempted despite failures")
}

func TestExecuteListFailure(t *testing.T) {
	transactions := &fakeTxRepo{err: assert.AnError}
	uc := NewUseCase(transactions, &fakeIngester{}, nopLogger{})

	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}
