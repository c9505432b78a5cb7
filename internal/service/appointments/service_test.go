package appointments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/booking-service/internal/domain"
	apptRepo "github.com/agendafacil/booking-service/internal/infra/storage/appointment"
	"github.com/agendafacil/booking-service/internal/integrations/notifier"
	"github.com/agendafacil/booking-service/internal/service/appointments/models"
)

type fakeApptRepo struct {
	appt *domain.Appointment
	err  error
}

func (f *fakeApptRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	copied := *f.appt
	return &copied, nil
}

func (f *fakeApptRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, reason *string) error {
	f.appt.Status = status
	f.appt.CancellationReason = reason
	return nil
}

type fakeNotifier struct {
	events []notifier.Event
}

func (f *fakeNotifier) Dispatch(event notifier.Event) {
	f.events = append(f.events, event)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func confirmedAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              42,
		EstablishmentID: 1,
		Status:          domain.StatusConfirmed,
	}
}

func TestGetByID(t *testing.T) {
	svc := NewService(&fakeApptRepo{appt: confirmedAppointment()}, &fakeNotifier{}, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewService(&fakeApptRepo{err: apptRepo.ErrAppointmentNotFound}, &fakeNotifier{}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancelByCustomer(t *testing.T) {
	repo := &fakeApptRepo{appt: confirmedAppointment()}
	notif := &fakeNotifier{}
	svc := NewService(repo, notif, nopLogger{})

	resp, err := svc.Cancel(context.Background(), &models.CancelRequest{AppointmentID: 42, ByCustomer: true})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, domain.ReasonCancelledByCustomer, *resp.CancellationReason)

	require.Len(t, notif.events, 1)
	assert.Equal(t, domain.ReasonCancelledByCustomer, notif.events[0].Reason)
}

func TestCancelByEstablishment(t *testing.T) {
	repo := &fakeApptRepo{appt: confirmedAppointment()}
	svc := NewService(repo, &fakeNotifier{}, nopLogger{})

	resp, err := svc.Cancel(context.Background(), &models.CancelRequest{AppointmentID: 42})
	require.NoError(t, err)

	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, domain.ReasonCancelledByEstablishment, *resp.CancellationReason)
}

func TestCancelRefusesTerminalStates(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{
		domain.StatusStarted,
		domain.StatusCompleted,
		domain.StatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			appt := confirmedAppointment()
			appt.Status = status
			svc := NewService(&fakeApptRepo{appt: appt}, &fakeNotifier{}, nopLogger{})

			_, err := svc.Cancel(context.Background(), &models.CancelRequest{AppointmentID: 42})
			assert.ErrorIs(t, err, ErrCannotCancel)
		})
	}
}
