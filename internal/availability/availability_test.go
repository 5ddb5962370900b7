package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/ptr"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

type fakeTableRepo struct {
	tables []*domain.Table
	err    error
}

func (f *fakeTableRepo) GetActiveByRestaurant(ctx context.Context, restaurantID int64) ([]*domain.Table, error) {
	return f.tables, f.err
}

type fakeReservationRepo struct {
	// byTable брони по столам; FindOverlapping фильтрует пересечения сам
	byTable map[int64][]*domain.Reservation
	err     error
}

func (f *fakeReservationRepo) FindOverlapping(ctx context.Context, tableID int64, date time.Time, startTime types.TimeString, durationMinutes int) ([]*domain.Reservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Reservation
	for _, res := range f.byTable[tableID] {
		if res.Overlaps(startTime, durationMinutes) {
			out = append(out, res)
		}
	}
	return out, nil
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func table(id int64, capacity, minParty int) *domain.Table {
	return &domain.Table{ID: id, RestaurantID: 1, Capacity: capacity, MinPartySize: minParty, IsActive: true}
}

func reservation(id, tableID int64, start types.TimeString, duration int) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		TableID:         ptr.Ptr(tableID),
		StartTime:       start,
		DurationMinutes: duration,
		Status:          domain.StatusConfirmed,
	}
}

var day = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

func TestFindCandidates_OrderPreserved(t *testing.T) {
	// Репозиторий отдаёт столы уже в порядке выбора
	tables := &fakeTableRepo{tables: []*domain.Table{
		table(1, 2, 1),
		table(2, 4, 1),
		table(3, 6, 1),
	}}
	reservations := &fakeReservationRepo{byTable: map[int64][]*domain.Reservation{}}
	calc := NewCalculator(tables, reservations, noopLogger{})

	candidates, err := calc.FindCandidates(context.Background(), 1, day, types.TimeString("18:00"), 120, 3)
	require.NoError(t, err)
	// Стол на 2 не вмещает, остальные свободны и идут в исходном порядке
	require.Len(t, candidates, 2)
	assert.Equal(t, int64(2), candidates[0].ID)
	assert.Equal(t, int64(3), candidates[1].ID)
}

func TestFindCandidates_PartyUnserviceable(t *testing.T) {
	tables := &fakeTableRepo{tables: []*domain.Table{
		table(1, 2, 1),
		table(2, 4, 1),
	}}
	calc := NewCalculator(tables, &fakeReservationRepo{}, noopLogger{})

	_, err := calc.FindCandidates(context.Background(), 1, day, types.TimeString("18:00"), 120, 8)
	assert.ErrorIs(t, err, ErrPartyUnserviceable)
}

func TestFindCandidates_AllOccupied(t *testing.T) {
	tables := &fakeTableRepo{tables: []*domain.Table{table(1, 4, 1)}}
	reservations := &fakeReservationRepo{byTable: map[int64][]*domain.Reservation{
		1: {reservation(10, 1, types.TimeString("18:00"), 120)},
	}}
	calc := NewCalculator(tables, reservations, noopLogger{})

	// Пересечение окна - стол занят
	_, err := calc.FindCandidates(context.Background(), 1, day, types.TimeString("19:00"), 120, 4)
	assert.ErrorIs(t, err, ErrNoTablesAvailable)

	// Стык окон пересечением не считается
	candidates, err := calc.FindCandidates(context.Background(), 1, day, types.TimeString("20:00"), 120, 4)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestFindCandidatesForChange_ExcludesOwnReservation(t *testing.T) {
	tables := &fakeTableRepo{tables: []*domain.Table{table(1, 4, 1)}}
	reservations := &fakeReservationRepo{byTable: map[int64][]*domain.Reservation{
		1: {reservation(10, 1, types.TimeString("18:00"), 120)},
	}}
	calc := NewCalculator(tables, reservations, noopLogger{})

	// Перенос внутри собственного окна: без исключения стол выглядел бы занятым
	candidates, err := calc.FindCandidatesForChange(context.Background(), 1, day, types.TimeString("18:30"), 120, 4, 10)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)

	// Чужая бронь по-прежнему блокирует
	_, err = calc.FindCandidatesForChange(context.Background(), 1, day, types.TimeString("18:30"), 120, 4, 99)
	assert.ErrorIs(t, err, ErrNoTablesAvailable)
}

func TestAllocate(t *testing.T) {
	first := table(1, 4, 1)
	picked, err := Allocate([]*domain.Table{first, table(2, 6, 1)})
	require.NoError(t, err)
	assert.Equal(t, first, picked)

	_, err = Allocate(nil)
	assert.ErrorIs(t, err, ErrNoTablesAvailable)
}

func TestComputeFreeTimes(t *testing.T) {
	tables := []*domain.Table{table(1, 4, 1)}
	reservations := []*domain.Reservation{
		reservation(10, 1, types.TimeString("12:00"), 120), // [12:00, 14:00)
	}

	free := ComputeFreeTimes(tables, reservations, types.TimeString("10:00"), types.TimeString("14:00"), 120, 2, 60)

	// 10:00 свободно, 11:00-13:00 пересекаются с бронью, 14:00 свободно
	assert.Equal(t, []types.TimeString{"10:00", "14:00"}, free)
}

func TestComputeFreeTimes_SecondTableKeepsSlotOpen(t *testing.T) {
	tables := []*domain.Table{table(1, 4, 1), table(2, 4, 1)}
	reservations := []*domain.Reservation{
		reservation(10, 1, types.TimeString("12:00"), 120),
	}

	free := ComputeFreeTimes(tables, reservations, types.TimeString("11:00"), types.TimeString("13:00"), 120, 2, 60)

	// Второй стол свободен на всех слотах
	assert.Equal(t, []types.TimeString{"11:00", "12:00", "13:00"}, free)
}

func TestComputeFreeTimes_GridStopsAtMidnight(t *testing.T) {
	tables := []*domain.Table{table(1, 4, 1)}

	free := ComputeFreeTimes(tables, nil, types.TimeString("23:00"), types.TimeString("23:59"), 30, 2, 30)

	// Следующий слот 24:00 уже позже последнего допустимого старта
	assert.Equal(t, []types.TimeString{"23:00", "23:30"}, free)
}

func TestComputeFreeTimes_WindowMustFitWithinDay(t *testing.T) {
	tables := []*domain.Table{table(1, 4, 1)}

	free := ComputeFreeTimes(tables, nil, types.TimeString("22:30"), types.TimeString("23:30"), 60, 2, 30)

	// 23:00 заканчивается ровно в 24:00 и проходит; окна 23:30+60 сутки уже
	// не вмещают, хотя старт не позже последнего
	assert.Equal(t, []types.TimeString{"22:30", "23:00"}, free)
}

func TestNearestAlternatives(t *testing.T) {
	free := []types.TimeString{"17:00", "17:30", "18:30", "19:00", "20:00"}

	got := NearestAlternatives(free, types.TimeString("18:00"), 3)

	// 17:30 и 18:30 на равном расстоянии - раньшее первым
	assert.Equal(t, []types.TimeString{"17:30", "18:30", "17:00"}, got)
}

func TestNearestAlternatives_LimitAndEmpty(t *testing.T) {
	free := []types.TimeString{"17:00", "18:30"}

	got := NearestAlternatives(free, types.TimeString("18:00"), 5)
	assert.Equal(t, []types.TimeString{"18:30", "17:00"}, got)

	assert.Nil(t, NearestAlternatives(nil, types.TimeString("18:00"), 3))
	assert.Nil(t, NearestAlternatives(free, types.TimeString("18:00"), 0))
}
