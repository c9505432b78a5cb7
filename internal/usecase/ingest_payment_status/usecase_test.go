package ingest_payment_status

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/booking-service/internal/domain"
	txRepo "github.com/agendafacil/booking-service/internal/infra/storage/transaction"
	"github.com/agendafacil/booking-service/internal/integrations/notifier"
)

// fakeTxRepo mimics the status-gated conditional update of the real
// repository.
type fakeTxRepo struct {
	mu sync.Mutex
	tx *domain.Transaction
}

func (f *fakeTxRepo) GetByRef(ctx context.Context, gatewayRef string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tx == nil || f.tx.GatewayRef != gatewayRef {
		return nil, txRepo.ErrTransactionNotFound
	}
	copied := *f.tx
	return &copied, nil
}

func (f *fakeTxRepo) ApplyStatusIfPending(ctx context.Context, gatewayRef string, status domain.PaymentStatus) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tx == nil || f.tx.GatewayRef != gatewayRef {
		return nil, txRepo.ErrTransactionNotFound
	}
	if f.tx.PaymentStatus.IsTerminal() {
		return nil, txRepo.ErrAlreadyTerminal
	}
	f.tx.PaymentStatus = status
	copied := *f.tx
	return &copied, nil
}

type fakeApptRepo struct {
	mu      sync.Mutex
	appt    *domain.Appointment
	updates int
}

func (f *fakeApptRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *f.appt
	return &copied, nil
}

func (f *fakeApptRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, reason *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appt.Status = status
	f.appt.CancellationReason = reason
	f.updates++
	return nil
}

type fakeCouponRepo struct {
	mu         sync.Mutex
	coupon     *domain.Coupon
	increments int
}

func (f *fakeCouponRepo) GetByCode(ctx context.Context, establishmentID int64, code string) (*domain.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.coupon, nil
}

func (f *fakeCouponRepo) IncrementUsage(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.increments++
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notifier.Event
}

func (f *fakeNotifier) Dispatch(event notifier.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func pendingFixture() (*fakeTxRepo, *fakeApptRepo, *fakeCouponRepo) {
	code := "PROMO10"
	transactions := &fakeTxRepo{tx: &domain.Transaction{
		ID:            1,
		AppointmentID: 42,
		GatewayRef:    "pix-abc",
		Amount:        20,
		PaymentStatus: domain.PaymentPending,
		ExpiresAt:     time.Now().Add(30 * time.Minute),
	}}
	appointments := &fakeApptRepo{appt: &domain.Appointment{
		ID:              42,
		EstablishmentID: 1,
		Status:          domain.StatusPending,
		DiscountCode:    &code,
	}}
	coupons := &fakeCouponRepo{coupon: &domain.Coupon{ID: 3, Code: code}}
	return transactions, appointments, coupons
}

func newTestUseCase(transactions *fakeTxRepo, appointments *fakeApptRepo, coupons *fakeCouponRepo) (*UseCase, *fakeNotifier) {
	notif := &fakeNotifier{}
	uc := NewUseCase(transactions, appointments, coupons, passthroughTxManager{}, notif, nopLogger{})
	return uc, notif
}

func TestExecutePaidConfirmsAppointment(t *testing.T) {
	transactions, appointments, coupons := pendingFixture()
	uc, notif := newTestUseCase(transactions, appointments, coupons)

	resp, err := uc.Execute(context.Background(), &Request{GatewayRef: "pix-abc", Status: "paid"})
	require.NoError(t, err)

	assert.True(t, resp.Applied)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	assert.Equal(t, domain.StatusConfirmed, appointments.appt.Status)
	assert.Equal(t, 1, coupons.increments)

	require.Len(t, notif.events, 1)
	assert.Equal(t, int64(42), notif.events[0].AppointmentID)
	assert.Equal(t, string(domain.StatusConfirmed), notif.events[0].NewStatus)
}

func TestExecuteDuplicatePaidIsNoOp(t *testing.T) {
	transactions, appointments, coupons := pendingFixture()
	uc, notif := newTestUseCase(transactions, appointments, coupons)

	_, err := uc.Execute(context.Background(), &Request{GatewayRef: "pix-abc", Status: "paid"})
	require.NoError(t, err)

	resp, err := uc.Execute(context.Background(), &Request{GatewayRef: "pix-abc", Status: "paid"})
	require.NoError(t, err)

	// The redelivery changes nothing: one update, one increment, one event.
	assert.False(t, resp.Applied)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	assert.Equal(t, 1, appointments.updates)
	assert.Equal(t, 1, coupons.increments)
	assert.Len(t, notif.events, 1)
}

func TestExecuteRejectedCancelsAppointment(t *testing.T) {
	transactions, appointments, coupons := pendingFixture()
	uc, notif := newTestUseCase(transactions, appointments, coupons)

	resp, err := uc.Execute(context.Background(), &Request{GatewayRef: "pix-abc", Status: "rejected"})
	require.NoError(t, err)

	assert.True(t, resp.Applied)
	assert.Equal(t, domain.StatusCancelled, appointments.appt.Status)
	require.NotNil(t, appointments.appt.CancellationReason)
	assert.Equal(t, domain.ReasonPaymentRejected, *appointments.appt.CancellationReason)
	assert.Zero(t, coupons.increments)

	require.Len(t, notif.events, 1)
	assert.Equal(t, domain.ReasonPaymentRejected, notif.events[0].Reason)
}

func TestExecuteExpiredCancelsWithTimeoutReason(t *testing.T) {
	transactions, appointments, coupons := pendingFixture()
	uc, notif := newTestUseCase(transactions, appointments, coupons)

	resp, err := uc.Execute(context.Background(), &Request{GatewayRef: "pix-abc", Status: "expired"})
	require.NoError(t, err)

	assert.True(t, resp.Applied)
	assert.Equal(t, domain.StatusCancelled, appointments.appt.Status)
	require.NotNil(t, appointments.appt.CancellationReason)
	assert.Equal(t, domain.ReasonPaymentTimeout, *appointments.appt.CancellationReason)
	require.Len(t, notif.events, 1)
}

func TestExecutePaidAfterRejectedIsIgnored(t *testing.T) {
	transactions, appointments, coupons := pendingFixture()
	uc, _ := newTestUseCase(transactions, appointments, coupons)

	_, err := uc.Execute(context.Background(), &Request{GatewayRef: "pix-abc", Status: "rejected"})
	require.NoError(t, err)

	resp, err := uc.Execute(context.Background(), &Request{GatewayRef: "pix-abc", Status: "paid"})
	require.NoError(t, err)

	// The stored terminal state wins; the later contradictory delivery is
	// answered but not applied.
	assert.False(t, resp.Applied)
	assert.Equal(t, string(domain.PaymentRejected), resp.PaymentStatus)
	assert.Equal(t, domain.StatusCancelled, appointments.appt.Status)
}

func TestExecuteNonTerminalStatusHasNoSideEffects(t *testing.T) {
	transactions, appointments, coupons := pendingFixture()
	transactions.tx.PaymentStatus = domain.PaymentCreated
	uc, notif := newTestUseCase(transactions, appointments, coupons)

	resp, err := uc.Execute(context.Background(), &Request{GatewayRef: "pix-abc", Status: "pending"})
	require.NoError(t, err)

	assert.True(t, resp.Applied)
	assert.Equal(t, string(domain.PaymentPending), resp.PaymentStatus)
	assert.Equal(t, domain.StatusPending, appointments.appt.Status)
	assert.Empty(t, notif.events)
}

func TestExecuteUnknownRef(t *testing.T) {
	transactions, appointments, coupons := pendingFixture()
	uc, _ := newTestUseCase(transactions, appointments, coupons)

	_, err := uc.Execute(context.Background(), &Request{GatewayRef: "pix-nope", Status: "paid"})
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestExecuteAppointmentAlreadyResolvedSkipsEffects(t *testing.T) {
	transactions, appointments, coupons := pendingFixture()
	appointments.appt.Status = domain.StatusCancelled
	uc, notif := newTestUseCase(transactions, appointments, coupons)

	resp, err := uc.Execute(context.Background(), &Request{GatewayRef: "pix-abc", Status: "paid"})
	require.NoError(t, err)

	assert.True(t, resp.Applied)
	assert.Equal(t, domain.StatusCancelled, appointments.appt.Status)
	assert.Zero(t, appointments.updates)
	assert.Zero(t, coupons.increments)
	assert.Empty(t, notif.events)
}
