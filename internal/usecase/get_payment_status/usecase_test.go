package get_payment_status

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/booking-service/internal/domain"
	txRepo "github.com/agendafacil/booking-service/internal/infra/storage/transaction"
	"github.com/agendafacil/booking-service/internal/integrations/pixgateway"
	"github.com/agendafacil/booking-service/internal/usecase/ingest_payment_status"
)

type fakeTxRepo struct {
	tx *domain.Transaction
}

func (f *fakeTxRepo) GetByRef(ctx context.Context, gatewayRef string) (*domain.Transaction, error) {
	if f.tx == nil || f.tx.GatewayRef != gatewayRef {
		return nil, txRepo.ErrTransactionNotFound
	}
	copied := *f.tx
	return &copied, nil
}

type fakeGateway struct {
	status domain.PaymentStatus
	err    error
	polls  int
}

func (f *fakeGateway) GetStatus(ctx context.Context, ref string) (domain.PaymentStatus, error) {
	f.polls++
	if f.err != nil {
		return "", f.err
	}
	return f.status, nil
}

type fakeIngester struct {
	requests []*ingest_payment_status.Request
}

func (f *fakeIngester) Execute(ctx context.Context, req *ingest_payment_status.Request) (*ingest_payment_status.Response, error) {
	f.requests = append(f.requests, req)
	return &ingest_payment_status.Response{
		GatewayRef:    req.GatewayRef,
		PaymentStatus: req.Status,
		Applied:       true,
	}, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func storedTx(status domain.PaymentStatus) *domain.Transaction {
	return &domain.Transaction{
		ID:            1,
		AppointmentID: 42,
		GatewayRef:    "pix-abc",
		Amount:        27,
		PaymentStatus: status,
		ExpiresAt:     time.Now().Add(30 * time.Minute),
	}
}

func TestExecuteTerminalStatusSkipsPoll(t *testing.T) {
	gateway := &fakeGateway{}
	uc := NewUseCase(&fakeTxRepo{tx: storedTx(domain.PaymentPaid)}, gateway, &fakeIngester{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{GatewayRef: "pix-abc"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	assert.Zero(t, gateway.polls)
}

func TestExecutePendingPollsAndIngestsTerminalAnswer(t *testing.T) {
	gateway := &fakeGateway{status: domain.PaymentPaid}
	ingester := &fakeIngester{}
	uc := NewUseCase(&fakeTxRepo{tx: storedTx(domain.PaymentPending)}, gateway, ingester, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{GatewayRef: "pix-abc"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	assert.Equal(t, 1, gateway.polls)
	require.Len(t, ingester.requests, 1)
	assert.Equal(t, string(domain.PaymentPaid), ingester.requests[0].Status)
}

func TestExecutePendingPollStillPending(t *testing.T) {
	gateway := &fakeGateway{status: domain.PaymentPending}
	ingester := &fakeIngester{}
	uc := NewUseCase(&fakeTxRepo{tx: storedTx(domain.PaymentPending)}, gateway, ingester, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{GatewayRef: "pix-abc"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)
	assert.Empty(t, ingester.requests)
}

func TestExecutePollFailureAnswersStoredState(t *testing.T) {
	gateway := &fakeGateway{err: pixgateway.ErrGatewayUnavailable}
	uc := NewUseCase(&fakeTxRepo{tx: storedTx(domain.PaymentPending)}, gateway, &fakeIngester{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{GatewayRef: "pix-abc"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)
}

func TestExecuteUnknownRef(t *testing.T) {
	uc := NewUseCase(&fakeTxRepo{}, &fakeGateway{}, &fakeIngester{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{GatewayRef: "pix-nope"})
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}
