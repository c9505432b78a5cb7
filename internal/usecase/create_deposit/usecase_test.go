package create_deposit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/booking-service/internal/domain"
	txRepo "github.com/agendafacil/booking-service/internal/infra/storage/transaction"
	"github.com/agendafacil/booking-service/internal/integrations/pixgateway"
)

type fakeApptRepo struct {
	appt *domain.Appointment
	err  error
}

func (f *fakeApptRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.appt, nil
}

type fakeTxRepo struct {
	active  *domain.Transaction
	created []*domain.Transaction

	// createErr fails the insert; activeAfterCreate is what a lookup finds
	// once an insert has been attempted (the row a concurrent winner wrote).
	createErr         error
	activeAfterCreate *domain.Transaction
	createCalls       int
}

func (f *fakeTxRepo) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	tx.ID = int64(len(f.created) + 1)
	f.created = append(f.created, tx)
	return tx, nil
}

func (f *fakeTxRepo) GetActiveByAppointmentID(ctx context.Context, appointmentID int64) (*domain.Transaction, error) {
	if f.active != nil {
		return f.active, nil
	}
	if f.createCalls > 0 && f.activeAfterCreate != nil {
		return f.activeAfterCreate, nil
	}
	return nil, txRepo.ErrTransactionNotFound
}

type fakeSettings struct {
	est *domain.Establishment
}

func (f *fakeSettings) GetEstablishment(ctx context.Context, establishmentID int64) (*domain.Establishment, error) {
	return f.est, nil
}

type fakeGateway struct {
	charge   *pixgateway.Charge
	err      error
	requests []pixgateway.ChargeRequest
}

func (f *fakeGateway) CreateCharge(ctx context.Context, req pixgateway.ChargeRequest) (*pixgateway.Charge, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.charge, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var testNow = time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return testNow }

func pendingAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              42,
		EstablishmentID: 1,
		FinalPrice:      90,
		Status:          domain.StatusPending,
	}
}

func depositEstablishment() *domain.Establishment {
	return &domain.Establishment{
		ID:         1,
		FeeEnabled: true,
		FeeType:    domain.FeePercentage,
		FeeAmount:  30,
	}
}

func newTestUseCase(appts *fakeApptRepo, transactions *fakeTxRepo, gateway *fakeGateway) *UseCase {
	uc := NewUseCase(
		appts,
		transactions,
		&fakeSettings{est: depositEstablishment()},
		gateway,
		30*time.Minute,
		nopLogger{},
	)
	uc.timeProvider = fixedClock{}
	return uc
}

func TestExecuteCreatesCharge(t *testing.T) {
	transactions := &fakeTxRepo{}
	gateway := &fakeGateway{charge: &pixgateway.Charge{
		Ref:       "pix-abc",
		QRPayload: "00020126...",
		Status:    "created",
		ExpiresAt: testNow.Add(30 * time.Minute),
	}}
	uc := newTestUseCase(&fakeApptRepo{appt: pendingAppointment()}, transactions, gateway)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 42})
	require.NoError(t, err)

	// 30% of the 90.00 final price.
	assert.Equal(t, 27.0, resp.Amount)
	assert.Equal(t, "pix-abc", resp.GatewayRef)
	assert.Equal(t, string(domain.PaymentCreated), resp.PaymentStatus)
	assert.False(t, resp.AlreadyExists)

	require.Len(t, transactions.created, 1)
	assert.Equal(t, int64(42), transactions.created[0].AppointmentID)

	require.Len(t, gateway.requests, 1)
	assert.Equal(t, 27.0, gateway.requests[0].Amount)
	assert.Equal(t, int((30 * time.Minute).Seconds()), gateway.requests[0].ExpiresIn)
	assert.NotEmpty(t, gateway.requests[0].IdempotencyKey)
}

func TestExecuteIdempotencyKeyIsDeterministic(t *testing.T) {
	gateway := &fakeGateway{charge: &pixgateway.Charge{Ref: "pix-abc", Status: "created"}}
	uc := newTestUseCase(&fakeApptRepo{appt: pendingAppointment()}, &fakeTxRepo{}, gateway)

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 42})
	require.NoError(t, err)

	gateway2 := &fakeGateway{charge: &pixgateway.Charge{Ref: "pix-abc", Status: "created"}}
	uc2 := newTestUseCase(&fakeApptRepo{appt: pendingAppointment()}, &fakeTxRepo{}, gateway2)

	_, err = uc2.Execute(context.Background(), &Request{AppointmentID: 42})
	require.NoError(t, err)

	// Same appointment, same key: a retried call after a lost response hits
	// the same gateway charge.
	assert.Equal(t, gateway.requests[0].IdempotencyKey, gateway2.requests[0].IdempotencyKey)
}

func TestExecuteReturnsExistingActiveTransaction(t *testing.T) {
	existing := &domain.Transaction{
		ID:            7,
		AppointmentID: 42,
		GatewayRef:    "pix-old",
		Amount:        27,
		PaymentStatus: domain.PaymentPending,
		ExpiresAt:     testNow.Add(10 * time.Minute),
	}
	transactions := &fakeTxRepo{active: existing}
	gateway := &fakeGateway{}
	uc := newTestUseCase(&fakeApptRepo{appt: pendingAppointment()}, transactions, gateway)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 42})
	require.NoError(t, err)

	assert.True(t, resp.AlreadyExists)
	assert.Equal(t, "pix-old", resp.GatewayRef)
	assert.Empty(t, gateway.requests, "gateway must not be called")
	assert.Empty(t, transactions.created)
}

func TestExecuteGatewayFailureLeavesNoRow(t *testing.T) {
	transactions := &fakeTxRepo{}
	gateway := &fakeGateway{err: pixgateway.ErrGatewayUnavailable}
	uc := newTestUseCase(&fakeApptRepo{appt: pendingAppointment()}, transactions, gateway)

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 42})

	assert.ErrorIs(t, err, ErrPaymentGateway)
	assert.Empty(t, transactions.created)
}

func TestExecuteRejectsNonPendingAppointment(t *testing.T) {
	appt := pendingAppointment()
	appt.Status = domain.StatusConfirmed
	uc := newTestUseCase(&fakeApptRepo{appt: appt}, &fakeTxRepo{}, &fakeGateway{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 42})
	assert.ErrorIs(t, err, ErrAppointmentNotPending)
}

func TestExecuteRejectsWhenNoFeeConfigured(t *testing.T) {
	uc := newTestUseCase(&fakeApptRepo{appt: pendingAppointment()}, &fakeTxRepo{}, &fakeGateway{})
	uc.settingsClient = &fakeSettings{est: &domain.Establishment{ID: 1}}

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 42})
	assert.ErrorIs(t, err, ErrDepositNotRequired)
}

func TestExecuteFallsBackToLocalExpiry(t *testing.T) {
	transactions := &fakeTxRepo{}
	gateway := &fakeGateway{charge: &pixgateway.Charge{Ref: "pix-abc", Status: "created"}}
	uc := newTestUseCase(&fakeApptRepo{appt: pendingAppointment()}, transactions, gateway)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 42})
	require.NoError(t, err)

	// The gateway answered without an expiry; the local TTL applies.
	assert.Equal(t, testNow.Add(30*time.Minute), resp.ExpiresAt)
}

func TestExecuteLostInsertRaceReturnsWinningTransaction(t *testing.T) {
	winner := &domain.Transaction{
		ID:            7,
		AppointmentID: 42,
		GatewayRef:    "pix-abc",
		Amount:        27,
		QRPayload:     "00020126...",
		PaymentStatus: domain.PaymentCreated,
		ExpiresAt:     testNow.Add(30 * time.Minute),
	}
	transactions := &fakeTxRepo{
		createErr:         txRepo.ErrDuplicateTransaction,
		activeAfterCreate: winner,
	}
	gateway := &fakeGateway{charge: &pixgateway.Charge{
		Ref:       "pix-abc",
		QRPayload: "00020126...",
		Status:    "created",
		ExpiresAt: testNow.Add(30 * time.Minute),
	}}
	uc := newTestUseCase(&fakeApptRepo{appt: pendingAppointment()}, transactions, gateway)

	// Both concurrent requests missed the short circuit; this one lost the
	// insert. It must hand back the row the winner wrote, not a 500.
	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 42})
	require.NoError(t, err)

	assert.True(t, resp.AlreadyExists)
	assert.Equal(t, int64(7), resp.TransactionID)
	assert.Equal(t, "pix-abc", resp.GatewayRef)
	assert.Empty(t, transactions.created)
}
