package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/integrations/restaurantservice"
	"github.com/m04kA/RST-ReservationService/pkg/ptr"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// 2026-09-15 - вторник
var testDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

func testRestaurant() *restaurantservice.Restaurant {
	open := restaurantservice.DaySchedule{
		IsOpen:              true,
		OpenTime:            ptr.Ptr("10:00"),
		LastReservationTime: ptr.Ptr("21:00"),
	}
	return &restaurantservice.Restaurant{
		ID:   1,
		Name: "Тестовый ресторан",
		WorkingHours: restaurantservice.WeekSchedule{
			Monday:    open,
			Tuesday:   open,
			Wednesday: open,
			Thursday:  open,
			Friday:    open,
			Saturday:  open,
			Sunday:    restaurantservice.DaySchedule{IsOpen: false},
		},
	}
}

func testPolicy() *domain.ReservationPolicy {
	return &domain.ReservationPolicy{
		MinPartySize:            2,
		MaxPartySize:            10,
		ReservationDurationMin:  120,
		AdvanceBookingDays:      30,
		ModificationDeadlineHrs: 24,
		CancellationDeadlineHrs: 24,
	}
}

func TestValidate_OK(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	err := Validate(testRestaurant(), testPolicy(), now, testDate, types.TimeString("18:00"), 120, 4)
	assert.NoError(t, err)
}

func TestValidate_DateInPast(t *testing.T) {
	now := time.Date(2026, 9, 15, 19, 0, 0, 0, time.UTC)

	err := Validate(testRestaurant(), testPolicy(), now, testDate, types.TimeString("18:00"), 120, 4)
	assert.ErrorIs(t, err, ErrDateInPast)
	assert.ErrorIs(t, err, ErrPolicyViolation)

	// Время ровно сейчас тоже отклоняется - нужно строго будущее
	err = Validate(testRestaurant(), testPolicy(), now, testDate, types.TimeString("19:00"), 120, 4)
	assert.ErrorIs(t, err, ErrDateInPast)
}

func TestValidate_TooFarInAdvance(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	farDate := now.AddDate(0, 0, 31)

	err := Validate(testRestaurant(), testPolicy(), now, farDate, types.TimeString("18:00"), 120, 4)
	assert.ErrorIs(t, err, ErrTooFarInAdvance)

	// Ровно на границе окна - допустимо
	boundaryDate := now.AddDate(0, 0, 30)
	err = Validate(testRestaurant(), testPolicy(), now, boundaryDate, types.TimeString("18:00"), 120, 4)
	assert.NoError(t, err)

	// 0 = без ограничений
	pol := testPolicy()
	pol.AdvanceBookingDays = 0
	err = Validate(testRestaurant(), pol, now, now.AddDate(0, 0, 365), types.TimeString("18:00"), 120, 4)
	assert.NoError(t, err)
}

func TestValidate_OperatingHours(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	// Воскресенье закрыто
	sunday := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	err := Validate(testRestaurant(), testPolicy(), now, sunday, types.TimeString("18:00"), 120, 4)
	assert.ErrorIs(t, err, ErrRestaurantClosed)

	// До открытия
	err = Validate(testRestaurant(), testPolicy(), now, testDate, types.TimeString("09:30"), 120, 4)
	assert.ErrorIs(t, err, ErrOutsideHours)

	// После последнего времени приёма броней
	err = Validate(testRestaurant(), testPolicy(), now, testDate, types.TimeString("21:30"), 120, 4)
	assert.ErrorIs(t, err, ErrOutsideHours)

	// Границы включительно: ровно открытие и ровно последнее время проходят
	err = Validate(testRestaurant(), testPolicy(), now, testDate, types.TimeString("10:00"), 120, 4)
	assert.NoError(t, err)
	err = Validate(testRestaurant(), testPolicy(), now, testDate, types.TimeString("21:00"), 120, 4)
	assert.NoError(t, err)
}

func TestValidate_WindowCrossesMidnight(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	// Ресторан принимает брони до 23:00, но двухчасовое окно с последнего
	// времени уходит за полночь
	restaurant := testRestaurant()
	restaurant.WorkingHours.Tuesday.LastReservationTime = ptr.Ptr("23:00")

	err := Validate(restaurant, testPolicy(), now, testDate, types.TimeString("23:00"), 120, 4)
	assert.ErrorIs(t, err, ErrCrossesMidnight)
	assert.ErrorIs(t, err, ErrPolicyViolation)

	err = Validate(restaurant, testPolicy(), now, testDate, types.TimeString("22:30"), 120, 4)
	assert.ErrorIs(t, err, ErrCrossesMidnight)

	// Окно, заканчивающееся ровно в 24:00, помещается в сутки
	err = Validate(restaurant, testPolicy(), now, testDate, types.TimeString("22:00"), 120, 4)
	assert.NoError(t, err)
}

func TestValidate_PartySize(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	err := Validate(testRestaurant(), testPolicy(), now, testDate, types.TimeString("18:00"), 120, 1)
	assert.ErrorIs(t, err, ErrPartyTooSmall)

	err = Validate(testRestaurant(), testPolicy(), now, testDate, types.TimeString("18:00"), 120, 11)
	assert.ErrorIs(t, err, ErrPartyTooLarge)

	// Границы включительно
	err = Validate(testRestaurant(), testPolicy(), now, testDate, types.TimeString("18:00"), 120, 2)
	assert.NoError(t, err)
	err = Validate(testRestaurant(), testPolicy(), now, testDate, types.TimeString("18:00"), 120, 10)
	assert.NoError(t, err)
}

func TestCheckModificationDeadline(t *testing.T) {
	res := &domain.Reservation{
		Date:      testDate,
		StartTime: types.TimeString("18:00"),
	}
	pol := testPolicy() // дедлайн 24 часа

	// За 36 часов до брони - можно
	now := time.Date(2026, 9, 14, 6, 0, 0, 0, time.UTC)
	assert.NoError(t, CheckModificationDeadline(res, pol, now))

	// За 12 часов - дедлайн прошёл
	now = time.Date(2026, 9, 15, 6, 0, 0, 0, time.UTC)
	assert.ErrorIs(t, CheckModificationDeadline(res, pol, now), ErrModificationDeadline)

	// Ровно на дедлайне - уже поздно
	now = time.Date(2026, 9, 14, 18, 0, 0, 0, time.UTC)
	assert.ErrorIs(t, CheckModificationDeadline(res, pol, now), ErrModificationDeadline)
}

func TestIsLateCancellation(t *testing.T) {
	res := &domain.Reservation{
		Date:      testDate,
		StartTime: types.TimeString("18:00"),
	}
	pol := testPolicy() // дедлайн 24 часа

	// За 36 часов - отмена бесплатна
	now := time.Date(2026, 9, 14, 6, 0, 0, 0, time.UTC)
	assert.False(t, IsLateCancellation(res, pol, now))

	// За 12 часов - поздняя отмена
	now = time.Date(2026, 9, 15, 6, 0, 0, 0, time.UTC)
	assert.True(t, IsLateCancellation(res, pol, now))

	// 0 = штрафов за отмену нет
	pol.CancellationDeadlineHrs = 0
	assert.False(t, IsLateCancellation(res, pol, now))
}

func TestDepositRequired(t *testing.T) {
	restaurant := testRestaurant()
	pol := testPolicy()
	pol.DepositPartySize = 8
	pol.DepositPerGuest = 10

	// Маленькая компания, обычная дата - депозит не нужен
	required, amount := DepositRequired(restaurant, pol, testDate, 4)
	assert.False(t, required)
	assert.Equal(t, 0.0, amount)

	// Большая компания
	required, amount = DepositRequired(restaurant, pol, testDate, 8)
	assert.True(t, required)
	assert.Equal(t, 80.0, amount)

	// Blackout дата требует депозит даже от маленькой компании
	restaurant.BlackoutDates = []string{"2026-09-15"}
	required, amount = DepositRequired(restaurant, pol, testDate, 4)
	assert.True(t, required)
	assert.Equal(t, 40.0, amount)

	// DepositPerGuest = 0 выключает депозиты
	pol.DepositPerGuest = 0
	required, _ = DepositRequired(restaurant, pol, testDate, 10)
	assert.False(t, required)
}

func TestScheduleForDay(t *testing.T) {
	restaurant := testRestaurant()

	schedule := ScheduleForDay(restaurant, testDate) // вторник
	assert.True(t, schedule.IsOpen)

	sunday := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	schedule = ScheduleForDay(restaurant, sunday)
	assert.False(t, schedule.IsOpen)
}
