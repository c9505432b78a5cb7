package get_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/booking-service/internal/domain"
	settingsClient "github.com/agendafacil/booking-service/internal/integrations/settingsservice"
	"github.com/agendafacil/booking-service/pkg/types"
)

type fakeApptRepo struct {
	counts map[time.Time]int
}

func (f *fakeApptRepo) SlotCounts(ctx context.Context, establishmentID int64, from, to time.Time) (map[time.Time]int, error) {
	return f.counts, nil
}

type fakeSettings struct {
	est    *domain.Establishment
	svc    *domain.Service
	blocks domain.CalendarBlocks
	estErr error
	svcErr error
}

func (f *fakeSettings) GetEstablishment(ctx context.Context, establishmentID int64) (*domain.Establishment, error) {
	if f.estErr != nil {
		return nil, f.estErr
	}
	return f.est, nil
}

func (f *fakeSettings) GetService(ctx context.Context, establishmentID, serviceID int64) (*domain.Service, error) {
	if f.svcErr != nil {
		return nil, f.svcErr
	}
	return f.svc, nil
}

func (f *fakeSettings) GetCalendarBlocks(ctx context.Context, establishmentID int64, from, to time.Time) (domain.CalendarBlocks, error) {
	return f.blocks, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func testEstablishment() *domain.Establishment {
	open := types.TimeString("09:00")
	close := types.TimeString("11:00")
	day := domain.DaySchedule{IsOpen: true, OpenTime: &open, CloseTime: &close}
	return &domain.Establishment{
		ID:       1,
		Timezone: "UTC",
		WorkingHours: domain.WorkingHours{
			Monday: day,
		},
		SlotsPerHour:           1,
		SlotGranularityMinutes: 60,
	}
}

func testOffering() *domain.Service {
	return &domain.Service{ID: 7, EstablishmentID: 1, Name: "Corte", Price: 100, Active: true}
}

// 2026-03-16 is a Monday.
var (
	testDate = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
)

func newTestUseCase(settings *fakeSettings, counts map[time.Time]int) *UseCase {
	uc := NewUseCase(&fakeApptRepo{counts: counts}, settings, nopLogger{})
	uc.timeProvider = fixedClock{now: testNow}
	return uc
}

func validRequest() *Request {
	return &Request{EstablishmentID: 1, ServiceID: 7, Date: testDate}
}

func TestExecuteListsSlots(t *testing.T) {
	// 09:00-11:00 at one spot per hour, 10:00 already booked.
	booked := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	settings := &fakeSettings{est: testEstablishment(), svc: testOffering()}
	uc := newTestUseCase(settings, map[time.Time]int{booked: 1})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.DayAvailable), resp.DayStatus)
	require.Len(t, resp.Slots, 2)

	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, string(domain.SlotAvailable), resp.Slots[0].Status)
	assert.Equal(t, 1, resp.Slots[0].AvailableSpots)
	assert.Equal(t, 1, resp.Slots[0].TotalSpots)
	assert.Equal(t, 60, resp.Slots[0].DurationMinutes)

	assert.Equal(t, types.TimeString("10:00"), resp.Slots[1].StartTime)
	assert.Equal(t, string(domain.SlotOccupied), resp.Slots[1].Status)
	assert.Equal(t, 0, resp.Slots[1].AvailableSpots)
}

func TestExecuteFullyBookedDayReportsClosed(t *testing.T) {
	settings := &fakeSettings{est: testEstablishment(), svc: testOffering()}
	counts := map[time.Time]int{
		time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC):  1,
		time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC): 1,
	}
	uc := newTestUseCase(settings, counts)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Every slot taken: the day-level status degrades to closed while the
	// slot list still shows the occupied entries.
	assert.Equal(t, string(domain.DayClosed), resp.DayStatus)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, string(domain.SlotOccupied), resp.Slots[0].Status)
	assert.Equal(t, string(domain.SlotOccupied), resp.Slots[1].Status)
}

func TestExecuteBlockedDayHasNoSlots(t *testing.T) {
	settings := &fakeSettings{
		est:    testEstablishment(),
		svc:    testOffering(),
		blocks: domain.CalendarBlocks{Dates: []domain.BlockedDate{{Date: testDate}}},
	}
	uc := newTestUseCase(settings, nil)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.DayBlocked), resp.DayStatus)
	assert.Empty(t, resp.Slots)
}

func TestExecuteClosedWeekday(t *testing.T) {
	settings := &fakeSettings{est: testEstablishment(), svc: testOffering()}
	uc := newTestUseCase(settings, nil)

	req := validRequest()
	req.Date = time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC) // Tuesday, no schedule
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, string(domain.DayClosed), resp.DayStatus)
	assert.Empty(t, resp.Slots)
}

func TestExecuteBlockedTimeWindow(t *testing.T) {
	settings := &fakeSettings{
		est: testEstablishment(),
		svc: testOffering(),
		blocks: domain.CalendarBlocks{Times: []domain.BlockedTime{
			{Date: testDate, StartTime: "09:00", EndTime: "10:00"},
		}},
	}
	uc := newTestUseCase(settings, nil)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, resp.Slots, 2)
	assert.Equal(t, string(domain.SlotBlocked), resp.Slots[0].Status)
	assert.Equal(t, string(domain.SlotAvailable), resp.Slots[1].Status)
}

func TestExecuteDateBeyondWindow(t *testing.T) {
	est := testEstablishment()
	est.LatestBookingOffset = domain.BookingOffset{Unit: domain.OffsetDay, Count: 2}
	settings := &fakeSettings{est: est, svc: testOffering()}
	uc := newTestUseCase(settings, nil)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDateOutsideWindow)
}

func TestExecuteLookupErrors(t *testing.T) {
	t.Run("establishment not found", func(t *testing.T) {
		settings := &fakeSettings{estErr: settingsClient.ErrEstablishmentNotFound}
		uc := newTestUseCase(settings, nil)
		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrEstablishmentNotFound)
	})

	t.Run("service not found", func(t *testing.T) {
		settings := &fakeSettings{est: testEstablishment(), svcErr: settingsClient.ErrServiceNotFound}
		uc := newTestUseCase(settings, nil)
		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("inactive service", func(t *testing.T) {
		svc := testOffering()
		svc.Active = false
		settings := &fakeSettings{est: testEstablishment(), svc: svc}
		uc := newTestUseCase(settings, nil)
		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrServiceInactive)
	})

	t.Run("service of another establishment", func(t *testing.T) {
		svc := testOffering()
		svc.EstablishmentID = 99
		settings := &fakeSettings{est: testEstablishment(), svc: svc}
		uc := newTestUseCase(settings, nil)
		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrServiceInactive)
	})
}
