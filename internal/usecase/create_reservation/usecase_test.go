package create_reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RST-ReservationService/internal/availability"
	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	policyRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/policy"
	resRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/RST-ReservationService/internal/integrations/paymentservice"
	"github.com/m04kA/RST-ReservationService/internal/integrations/restaurantservice"
	"github.com/m04kA/RST-ReservationService/internal/policy"
	"github.com/m04kA/RST-ReservationService/pkg/ptr"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// --- фейки ---

type fakeReservationRepo struct {
	created       []*domain.Reservation
	createErrs    []error // очередь ошибок Create, потом успех
	nextID        int64
	duplicates    []*domain.Reservation
	dayRes        []*domain.Reservation
	duplicatesErr error
}

func (f *fakeReservationRepo) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	f.nextID++
	res.ID = f.nextID
	res.CreatedAt = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	res.UpdatedAt = res.CreatedAt
	f.created = append(f.created, res)
	return res, nil
}

func (f *fakeReservationRepo) FindActiveByUserAround(ctx context.Context, userID, restaurantID int64, date time.Time, startTime types.TimeString, windowMinutes int) ([]*domain.Reservation, error) {
	return f.duplicates, f.duplicatesErr
}

func (f *fakeReservationRepo) Search(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	return f.dayRes, nil
}

type fakeTableRepo struct {
	tables  []*domain.Table
	touched []int64
}

func (f *fakeTableRepo) GetActiveByRestaurant(ctx context.Context, restaurantID int64) ([]*domain.Table, error) {
	return f.tables, nil
}

func (f *fakeTableRepo) TouchAssigned(ctx context.Context, tableID int64, at time.Time) error {
	f.touched = append(f.touched, tableID)
	return nil
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

type fakeCalculator struct {
	candidates []*domain.Table
	err        error
}

func (f *fakeCalculator) FindCandidates(ctx context.Context, restaurantID int64, date time.Time, startTime types.TimeString, durationMinutes, partySize int) ([]*domain.Table, error) {
	return f.candidates, f.err
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

type fakePaymentClient struct {
	declined bool
	requests []paymentservice.DepositRequest
}

func (f *fakePaymentClient) AuthorizeDeposit(ctx context.Context, req paymentservice.DepositRequest) (*paymentservice.DepositAuthorization, error) {
	f.requests = append(f.requests, req)
	if f.declined {
		return nil, paymentservice.ErrDepositDeclined
	}
	return &paymentservice.DepositAuthorization{
		AuthorizationID: "auth-1",
		Amount:          req.Amount,
		Status:          "authorized",
	}, nil
}

type fakePublisher struct {
	confirmed []events.ReservationConfirmedEvent
}

func (f *fakePublisher) ReservationConfirmed(ctx context.Context, event events.ReservationConfirmedEvent) error {
	f.confirmed = append(f.confirmed, event)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

// --- окружение по умолчанию ---

type env struct {
	uc         *UseCase
	resRepo    *fakeReservationRepo
	tableRepo  *fakeTableRepo
	policyRepo *fakePolicyRepo
	calculator *fakeCalculator
	payment    *fakePaymentClient
	publisher  *fakePublisher
}

// 2026-09-15 - вторник
var (
	testNow  = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
)

func openAllWeek() restaurantservice.WeekSchedule {
	open := restaurantservice.DaySchedule{
		IsOpen:              true,
		OpenTime:            ptr.Ptr("10:00"),
		LastReservationTime: ptr.Ptr("21:00"),
	}
	return restaurantservice.WeekSchedule{
		Monday: open, Tuesday: open, Wednesday: open,
		Thursday: open, Friday: open, Saturday: open, Sunday: open,
	}
}

func newEnv() *env {
	e := &env{
		resRepo:   &fakeReservationRepo{},
		tableRepo: &fakeTableRepo{tables: []*domain.Table{
			{ID: 1, RestaurantID: 1, Label: "T1", Capacity: 4, MinPartySize: 1, IsActive: true},
		}},
		policyRepo: &fakePolicyRepo{pol: &domain.ReservationPolicy{
			RestaurantID:           1,
			MinPartySize:           1,
			MaxPartySize:           10,
			ReservationDurationMin: 90,
			AdvanceBookingDays:     30,
		}},
		calculator: &fakeCalculator{},
		payment:    &fakePaymentClient{},
		publisher:  &fakePublisher{},
	}
	e.calculator.candidates = e.tableRepo.tables

	e.uc = NewUseCase(
		e.resRepo,
		e.tableRepo,
		e.policyRepo,
		e.calculator,
		&fakeRestaurantClient{restaurant: &restaurantservice.Restaurant{ID: 1, WorkingHours: openAllWeek()}},
		e.payment,
		e.publisher,
		fakeTxManager{},
		120,
		noopLogger{},
	)
	e.uc.timeProvider = fixedTime{testNow}
	return e
}

func validRequest() *Request {
	return &Request{
		UserID:       7,
		RestaurantID: 1,
		Date:         testDate,
		StartTime:    types.TimeString("18:00"),
		PartySize:    2,
		GuestName:    "Анна",
	}
}

// --- тесты ---

func TestExecute_Success(t *testing.T) {
	e := newEnv()

	resp, err := e.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, int64(1), resp.TableID)
	assert.Equal(t, "T1", resp.TableLabel)
	// Длительность зафиксирована из политики
	assert.Equal(t, 90, resp.DurationMinutes)
	assert.Len(t, resp.ConfirmationCode, codeLength)
	assert.Equal(t, 0.0, resp.DepositAmount)

	// LRU метка стола сдвинута, событие опубликовано
	assert.Equal(t, []int64{1}, e.tableRepo.touched)
	require.Len(t, e.publisher.confirmed, 1)
	assert.Equal(t, resp.ID, e.publisher.confirmed[0].ReservationID)
}

func TestExecute_InvalidInput(t *testing.T) {
	e := newEnv()

	req := validRequest()
	req.GuestName = "   "
	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.PartySize = 0
	_, err = e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_RestaurantNotFound(t *testing.T) {
	e := newEnv()
	e.uc.restaurantClient = &fakeRestaurantClient{err: restaurantservice.ErrRestaurantNotFound}

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}

func TestExecute_PolicyViolationPassesThrough(t *testing.T) {
	e := newEnv()

	req := validRequest()
	req.PartySize = 11
	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, policy.ErrPartyTooLarge)
	assert.ErrorIs(t, err, policy.ErrPolicyViolation)
}

func TestExecute_DefaultPolicyWhenNotConfigured(t *testing.T) {
	e := newEnv()
	e.policyRepo.pol = nil

	resp, err := e.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultReservationDurationMin, resp.DurationMinutes)
}

func TestExecute_DuplicateGuard(t *testing.T) {
	e := newEnv()
	e.resRepo.duplicates = []*domain.Reservation{{ID: 99, Status: domain.StatusConfirmed}}

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDuplicateReservation)
	assert.Empty(t, e.resRepo.created)
}

func TestExecute_CodeCollisionRetry(t *testing.T) {
	e := newEnv()
	e.resRepo.createErrs = []error{resRepo.ErrDuplicateCode, resRepo.ErrDuplicateCode, nil}

	resp, err := e.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ConfirmationCode)
	assert.Len(t, e.resRepo.created, 1)
}

func TestExecute_CodeCollisionExhausted(t *testing.T) {
	e := newEnv()
	for i := 0; i < maxCodeAttempts; i++ {
		e.resRepo.createErrs = append(e.resRepo.createErrs, resRepo.ErrDuplicateCode)
	}

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_DepositAuthorized(t *testing.T) {
	e := newEnv()
	e.policyRepo.pol.DepositPartySize = 2
	e.policyRepo.pol.DepositPerGuest = 25

	resp, err := e.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 50.0, resp.DepositAmount)

	require.Len(t, e.payment.requests, 1)
	assert.Equal(t, 50.0, e.payment.requests[0].Amount)
}

func TestExecute_DepositDeclined(t *testing.T) {
	e := newEnv()
	e.policyRepo.pol.DepositPartySize = 2
	e.policyRepo.pol.DepositPerGuest = 25
	e.payment.declined = true

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDepositDeclined)
	assert.Empty(t, e.resRepo.created)
}

func TestExecute_PartyUnserviceable(t *testing.T) {
	e := newEnv()
	e.calculator.err = availability.ErrPartyUnserviceable

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPartyUnserviceable)
}

func TestExecute_NoAvailabilityWithAlternatives(t *testing.T) {
	e := newEnv()
	e.calculator.err = availability.ErrNoTablesAvailable
	// Стол занят в 18:00-19:30, остальные слоты дня свободны
	e.resRepo.dayRes = []*domain.Reservation{{
		ID:              5,
		TableID:         ptr.Ptr(int64(1)),
		StartTime:       types.TimeString("18:00"),
		DurationMinutes: 90,
		Status:          domain.StatusConfirmed,
	}}

	_, err := e.uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrNoAvailability)

	var noAvail *NoAvailabilityError
	require.ErrorAs(t, err, &noAvail)
	require.Len(t, noAvail.Alternatives, alternativesLimit)
	// Ближайшие к 18:00 свободные слоты: окно 90 минут выбивает 17:00-19:00,
	// при равном расстоянии раньшее время первым
	assert.Equal(t, []types.TimeString{"16:30", "19:30", "16:00"}, noAvail.Alternatives)
}

func TestExecute_NoAvailabilityWithoutAlternatives(t *testing.T) {
	e := newEnv()
	e.calculator.err = availability.ErrNoTablesAvailable
	// Столов нет вообще - свободных времён не будет
	e.tableRepo.tables = nil

	_, err := e.uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrNoAvailability)

	var noAvail *NoAvailabilityError
	assert.False(t, errors.As(err, &noAvail))
}
