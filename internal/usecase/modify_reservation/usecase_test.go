package modify_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RST-ReservationService/internal/availability"
	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	resRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/RST-ReservationService/internal/integrations/restaurantservice"
	"github.com/m04kA/RST-ReservationService/internal/policy"
	"github.com/m04kA/RST-ReservationService/pkg/ptr"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// --- фейки ---

type fakeReservationRepo struct {
	reservation *domain.Reservation
	getErr      error
	reassignErr error
	reassigned  bool
	newTableID  int64
	newStart    types.TimeString
	newParty    int
	newDeposit  float64
}

func (f *fakeReservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.reservation, nil
}

func (f *fakeReservationRepo) Reassign(ctx context.Context, id, tableID int64, date time.Time, startTime types.TimeString, partySize int, depositAmount float64) error {
	if f.reassignErr != nil {
		return f.reassignErr
	}
	f.reassigned = true
	f.newTableID = tableID
	f.newStart = startTime
	f.newParty = partySize
	f.newDeposit = depositAmount
	return nil
}

type fakeTableRepo struct {
	touched []int64
}

func (f *fakeTableRepo) GetByID(ctx context.Context, id int64) (*domain.Table, error) {
	return nil, nil
}

func (f *fakeTableRepo) TouchAssigned(ctx context.Context, tableID int64, at time.Time) error {
	f.touched = append(f.touched, tableID)
	return nil
}

type fakePolicyRepo struct {
	pol *domain.ReservationPolicy
}

func (f *fakePolicyRepo) GetByRestaurant(ctx context.Context, restaurantID int64) (*domain.ReservationPolicy, error) {
	return f.pol, nil
}

type fakeCalculator struct {
	candidates []*domain.Table
	err        error
	excludedID int64
}

func (f *fakeCalculator) FindCandidatesForChange(ctx context.Context, restaurantID int64, date time.Time, startTime types.TimeString, durationMinutes, partySize int, excludeReservationID int64) ([]*domain.Table, error) {
	f.excludedID = excludeReservationID
	return f.candidates, f.err
}

type fakeRestaurantClient struct {
	restaurant *restaurantservice.Restaurant
}

func (f *fakeRestaurantClient) GetRestaurant(ctx context.Context, restaurantID int64) (*restaurantservice.Restaurant, error) {
	return f.restaurant, nil
}

type fakePublisher struct {
	updated []events.ReservationUpdatedEvent
}

func (f *fakePublisher) ReservationUpdated(ctx context.Context, event events.ReservationUpdatedEvent) error {
	f.updated = append(f.updated, event)
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

// --- окружение ---

// 2026-09-15 - вторник, бронь в 18:00; сейчас за 5 дней до неё
var (
	testNow  = time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
)

type env struct {
	uc         *UseCase
	resRepo    *fakeReservationRepo
	tableRepo  *fakeTableRepo
	calculator *fakeCalculator
	publisher  *fakePublisher
}

func newEnv() *env {
	open := restaurantservice.DaySchedule{
		IsOpen:              true,
		OpenTime:            ptr.Ptr("10:00"),
		LastReservationTime: ptr.Ptr("21:00"),
	}
	restaurant := &restaurantservice.Restaurant{
		ID: 1,
		WorkingHours: restaurantservice.WeekSchedule{
			Monday: open, Tuesday: open, Wednesday: open,
			Thursday: open, Friday: open, Saturday: open, Sunday: open,
		},
		StaffIDs: []int64{500},
	}

	currentTable := &domain.Table{ID: 1, RestaurantID: 1, Label: "T1", Capacity: 4, MinPartySize: 1, IsActive: true}

	e := &env{
		resRepo: &fakeReservationRepo{reservation: &domain.Reservation{
			ID:               33,
			UserID:           7,
			RestaurantID:     1,
			TableID:          ptr.Ptr(int64(1)),
			Date:             testDate,
			StartTime:        types.TimeString("18:00"),
			DurationMinutes:  90,
			PartySize:        2,
			Status:           domain.StatusConfirmed,
			ConfirmationCode: "ABC234",
			DepositAmount:    50,
			GuestName:        "Анна",
		}},
		tableRepo: &fakeTableRepo{},
		calculator: &fakeCalculator{candidates: []*domain.Table{
			currentTable,
			{ID: 2, RestaurantID: 1, Label: "T2", Capacity: 6, MinPartySize: 1, IsActive: true},
		}},
		publisher: &fakePublisher{},
	}

	e.uc = NewUseCase(
		e.resRepo,
		e.tableRepo,
		&fakePolicyRepo{pol: &domain.ReservationPolicy{
			RestaurantID:            1,
			MinPartySize:            1,
			MaxPartySize:            10,
			ReservationDurationMin:  90,
			AdvanceBookingDays:      30,
			ModificationDeadlineHrs: 24,
		}},
		e.calculator,
		&fakeRestaurantClient{restaurant: restaurant},
		e.publisher,
		fakeTxManager{},
		noopLogger{},
	)
	e.uc.timeProvider = fixedTime{testNow}
	return e
}

// --- тесты ---

func TestExecute_MoveTime(t *testing.T) {
	e := newEnv()

	resp, err := e.uc.Execute(context.Background(), &Request{
		ReservationID: 33,
		UserID:        7,
		StartTime:     ptr.Ptr(types.TimeString("19:00")),
	})
	require.NoError(t, err)

	assert.True(t, e.resRepo.reassigned)
	assert.Equal(t, types.TimeString("19:00"), e.resRepo.newStart)
	// Изменяемая бронь исключается из проверки пересечений
	assert.Equal(t, int64(33), e.calculator.excludedID)
	// Текущий стол подходит - остаётся, LRU метка не трогается
	assert.Equal(t, int64(1), resp.TableID)
	assert.Empty(t, e.tableRepo.touched)
	// Длительность и код не меняются
	assert.Equal(t, 90, resp.DurationMinutes)
	assert.Equal(t, "ABC234", resp.ConfirmationCode)

	require.Len(t, e.publisher.updated, 1)
	assert.Equal(t, "19:00", e.publisher.updated[0].StartTime)
}

func TestExecute_TableChangeTouchesLRU(t *testing.T) {
	e := newEnv()
	// Текущего стола нет среди кандидатов - берём первый из списка
	e.calculator.candidates = []*domain.Table{
		{ID: 2, RestaurantID: 1, Label: "T2", Capacity: 6, MinPartySize: 1, IsActive: true},
	}

	resp, err := e.uc.Execute(context.Background(), &Request{
		ReservationID: 33,
		UserID:        7,
		PartySize:     ptr.Ptr(5),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.TableID)
	assert.Equal(t, []int64{2}, e.tableRepo.touched)
	assert.Equal(t, 5, e.resRepo.newParty)
	// Депозит зафиксирован при создании: рост компании его не пересчитывает
	assert.Equal(t, 50.0, e.resRepo.newDeposit)
}

func TestExecute_NothingToModify(t *testing.T) {
	e := newEnv()

	_, err := e.uc.Execute(context.Background(), &Request{ReservationID: 33, UserID: 7})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_NotFound(t *testing.T) {
	e := newEnv()
	e.resRepo.getErr = resRepo.ErrReservationNotFound

	_, err := e.uc.Execute(context.Background(), &Request{
		ReservationID: 33,
		UserID:        7,
		PartySize:     ptr.Ptr(3),
	})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecute_AccessControl(t *testing.T) {
	e := newEnv()

	// Чужой пользователь
	_, err := e.uc.Execute(context.Background(), &Request{
		ReservationID: 33,
		UserID:        999,
		PartySize:     ptr.Ptr(3),
	})
	assert.ErrorIs(t, err, ErrForbidden)

	// Сотрудник ресторана может
	e = newEnv()
	_, err = e.uc.Execute(context.Background(), &Request{
		ReservationID: 33,
		UserID:        500,
		PartySize:     ptr.Ptr(3),
	})
	assert.NoError(t, err)
}

func TestExecute_NotModifiableStatus(t *testing.T) {
	e := newEnv()
	e.resRepo.reservation.Status = domain.StatusSeated

	_, err := e.uc.Execute(context.Background(), &Request{
		ReservationID: 33,
		UserID:        7,
		PartySize:     ptr.Ptr(3),
	})
	assert.ErrorIs(t, err, ErrNotModifiable)
}

func TestExecute_DeadlinePassed(t *testing.T) {
	e := newEnv()
	// За 12 часов до брони при дедлайне 24 часа
	e.uc.timeProvider = fixedTime{time.Date(2026, 9, 15, 6, 0, 0, 0, time.UTC)}

	_, err := e.uc.Execute(context.Background(), &Request{
		ReservationID: 33,
		UserID:        7,
		StartTime:     ptr.Ptr(types.TimeString("20:00")),
	})
	assert.ErrorIs(t, err, policy.ErrModificationDeadline)
}

func TestExecute_NewWindowAgainstPolicy(t *testing.T) {
	e := newEnv()

	// Новое время вне рабочих часов
	_, err := e.uc.Execute(context.Background(), &Request{
		ReservationID: 33,
		UserID:        7,
		StartTime:     ptr.Ptr(types.TimeString("22:30")),
	})
	assert.ErrorIs(t, err, policy.ErrOutsideHours)
}

func TestExecute_NoAvailability(t *testing.T) {
	e := newEnv()
	e.calculator.err = availability.ErrNoTablesAvailable

	_, err := e.uc.Execute(context.Background(), &Request{
		ReservationID: 33,
		UserID:        7,
		StartTime:     ptr.Ptr(types.TimeString("19:00")),
	})
	assert.ErrorIs(t, err, ErrNoAvailability)

	e.calculator.err = availability.ErrPartyUnserviceable
	_, err = e.uc.Execute(context.Background(), &Request{
		ReservationID: 33,
		UserID:        7,
		PartySize:     ptr.Ptr(9),
	})
	assert.ErrorIs(t, err, ErrPartyUnserviceable)
}

func TestExecute_ConcurrentStatusChange(t *testing.T) {
	e := newEnv()
	// Между чтением и переносом бронь сменила статус - CAS вернул 0 строк
	e.resRepo.reassignErr = resRepo.ErrReservationNotFound

	_, err := e.uc.Execute(context.Background(), &Request{
		ReservationID: 33,
		UserID:        7,
		StartTime:     ptr.Ptr(types.TimeString("19:00")),
	})
	assert.ErrorIs(t, err, ErrNotModifiable)
}
