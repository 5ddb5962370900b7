package get_available_times

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	policyRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/policy"
	"github.com/m04kA/RST-ReservationService/internal/integrations/restaurantservice"
	"github.com/m04kA/RST-ReservationService/pkg/ptr"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

type fakeReservationRepo struct {
	reservations []*domain.Reservation
}

func (f *fakeReservationRepo) Search(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	return f.reservations, nil
}

type fakeTableRepo struct {
	tables []*domain.Table
}

func (f *fakeTableRepo) GetActiveByRestaurant(ctx context.Context, restaurantID int64) ([]*domain.Table, error) {
	return f.tables, nil
}

type fakePolicyRepo struct {
	pol *domain.ReservationPolicy
}

func (f *fakePolicyRepo) GetByRestaurant(ctx context.Context, restaurantID int64) (*domain.ReservationPolicy, error) {
	if f.pol == nil {
		return nil, policyRepo.ErrPolicyNotFound
	}
	return f.pol, nil
}

type fakeRestaurantClient struct {
	restaurant *restaurantservice.Restaurant
	err        error
}

func (f *fakeRestaurantClient) GetRestaurant(ctx context.Context, restaurantID int64) (*restaurantservice.Restaurant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.restaurant, nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

// Tuesday; the restaurant is closed on Sundays.
var (
	openDate   = time.Date(2026, 9, 22, 0, 0, 0, 0, time.UTC)
	closedDate = time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	testNow    = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
)

func testRestaurant() *restaurantservice.Restaurant {
	openDay := restaurantservice.DaySchedule{
		IsOpen:              true,
		OpenTime:            ptr.Ptr("10:00"),
		LastReservationTime: ptr.Ptr("21:00"),
	}
	return &restaurantservice.Restaurant{
		ID: 1,
		WorkingHours: restaurantservice.WeekSchedule{
			Monday:    openDay,
			Tuesday:   openDay,
			Wednesday: openDay,
			Thursday:  openDay,
			Friday:    openDay,
			Saturday:  openDay,
			Sunday:    restaurantservice.DaySchedule{IsOpen: false},
		},
	}
}

type env struct {
	uc         *UseCase
	resRepo    *fakeReservationRepo
	tableRepo  *fakeTableRepo
	policyRepo *fakePolicyRepo
	restClient *fakeRestaurantClient
}

func newEnv(now time.Time) *env {
	e := &env{
		resRepo: &fakeReservationRepo{},
		tableRepo: &fakeTableRepo{tables: []*domain.Table{
			{ID: 1, RestaurantID: 1, Capacity: 4, MinPartySize: 1, IsActive: true},
		}},
		policyRepo: &fakePolicyRepo{pol: &domain.ReservationPolicy{
			RestaurantID:           1,
			MinPartySize:           1,
			MaxPartySize:           10,
			ReservationDurationMin: 60,
		}},
		restClient: &fakeRestaurantClient{restaurant: testRestaurant()},
	}
	e.uc = NewUseCase(e.resRepo, e.tableRepo, e.policyRepo, e.restClient, noopLogger{})
	e.uc.timeProvider = fixedTime{now}
	return e
}

func TestExecute_FreeTimesAroundBusyWindow(t *testing.T) {
	e := newEnv(testNow)
	start, _ := types.NewTimeStringFromString("12:00")
	e.resRepo.reservations = []*domain.Reservation{{
		ID:              5,
		RestaurantID:    1,
		TableID:         ptr.Ptr(int64(1)),
		Date:            openDate,
		StartTime:       start,
		DurationMinutes: 120,
		PartySize:       2,
		Status:          domain.StatusConfirmed,
	}}

	resp, err := e.uc.Execute(context.Background(), &Request{RestaurantID: 1, Date: openDate, PartySize: 2})
	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)

	assert.Equal(t, types.TimeString("10:00"), resp.Times[0])
	assert.Equal(t, types.TimeString("21:00"), resp.Times[len(resp.Times)-1])

	// The hour before the busy window still fits a 60 minute visit,
	// everything from 11:30 to 13:30 does not.
	assert.Contains(t, resp.Times, types.TimeString("11:00"))
	assert.Contains(t, resp.Times, types.TimeString("14:00"))
	assert.NotContains(t, resp.Times, types.TimeString("11:30"))
	assert.NotContains(t, resp.Times, types.TimeString("12:00"))
	assert.NotContains(t, resp.Times, types.TimeString("13:30"))
}

func TestExecute_ClosedDayReturnsEmptyList(t *testing.T) {
	e := newEnv(testNow)

	resp, err := e.uc.Execute(context.Background(), &Request{RestaurantID: 1, Date: closedDate, PartySize: 2})
	require.NoError(t, err)
	assert.Empty(t, resp.Times)
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestExecute_SameDayDropsPastTimes(t *testing.T) {
	e := newEnv(time.Date(2026, 9, 22, 18, 30, 0, 0, time.UTC))

	resp, err := e.uc.Execute(context.Background(), &Request{RestaurantID: 1, Date: openDate, PartySize: 2})
	require.NoError(t, err)

	// 18:30 itself already started, only later slots remain.
	assert.Equal(t, []types.TimeString{"19:00", "19:30", "20:00", "20:30", "21:00"}, resp.Times)
}

func TestExecute_DefaultPolicyWhenNotConfigured(t *testing.T) {
	e := newEnv(testNow)
	e.policyRepo.pol = nil

	resp, err := e.uc.Execute(context.Background(), &Request{RestaurantID: 1, Date: openDate, PartySize: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultReservationDurationMin, resp.DurationMinutes)
}

func TestExecute_PartyLargerThanAnyTable(t *testing.T) {
	e := newEnv(testNow)

	resp, err := e.uc.Execute(context.Background(), &Request{RestaurantID: 1, Date: openDate, PartySize: 8})
	require.NoError(t, err)
	assert.Empty(t, resp.Times)
}

func TestExecute_RestaurantNotFound(t *testing.T) {
	e := newEnv(testNow)
	e.restClient.err = restaurantservice.ErrRestaurantNotFound

	_, err := e.uc.Execute(context.Background(), &Request{RestaurantID: 99, Date: openDate, PartySize: 2})
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}

func TestExecute_Validation(t *testing.T) {
	e := newEnv(testNow)

	_, err := e.uc.Execute(context.Background(), &Request{RestaurantID: 0, Date: openDate, PartySize: 2})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.uc.Execute(context.Background(), &Request{RestaurantID: 1, PartySize: 2})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.uc.Execute(context.Background(), &Request{RestaurantID: 1, Date: openDate, PartySize: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
