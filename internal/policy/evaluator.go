// Package policy - вычислитель правил бронирования. Чистые функции над уже
// загруженными данными: никаких запросов к БД и побочных эффектов.
// Используется одинаково при создании и при изменении брони.
package policy

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/integrations/restaurantservice"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// Validate проверяет запрос на бронирование по правилам ресторана.
// Проверки выполняются по порядку с остановкой на первом нарушении:
//  1. запрошенное время строго в будущем
//  2. дата внутри окна предварительного бронирования
//  3. ресторан открыт и время внутри [открытие, последняя бронь]
//  4. окно брони целиком помещается в сутки
//  5. размер компании внутри [мин, макс]
func Validate(
	restaurant *restaurantservice.Restaurant,
	pol *domain.ReservationPolicy,
	now time.Time,
	date time.Time,
	startTime types.TimeString,
	durationMinutes int,
	partySize int,
) error {
	if err := validateInFuture(now, date, startTime); err != nil {
		return err
	}
	if err := validateAdvanceWindow(now, date, pol.AdvanceBookingDays); err != nil {
		return err
	}
	if err := validateOperatingHours(restaurant, date, startTime); err != nil {
		return err
	}
	if err := validateWithinDay(startTime, durationMinutes); err != nil {
		return err
	}
	return validatePartySize(pol, partySize)
}

func validateInFuture(now time.Time, date time.Time, startTime types.TimeString) error {
	minutes, err := startTime.Minutes()
	if err != nil {
		return ErrInvalidSchedule
	}

	startsAt := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location()).
		Add(time.Duration(minutes) * time.Minute)

	if !startsAt.After(now) {
		return ErrDateInPast
	}
	return nil
}

func validateAdvanceWindow(now time.Time, date time.Time, advanceBookingDays int) error {
	// 0 = без ограничений
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, advanceBookingDays)
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	if dateOnly.After(maxDate) {
		return ErrTooFarInAdvance
	}
	return nil
}

func validateOperatingHours(restaurant *restaurantservice.Restaurant, date time.Time, startTime types.TimeString) error {
	schedule := ScheduleForDay(restaurant, date)
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.LastReservationTime == nil {
		return ErrRestaurantClosed
	}

	openTime, err := types.NewTimeStringFromString(*schedule.OpenTime)
	if err != nil {
		return ErrInvalidSchedule
	}
	lastTime, err := types.NewTimeStringFromString(*schedule.LastReservationTime)
	if err != nil {
		return ErrInvalidSchedule
	}

	// Граничные значения допустимы: бронь ровно на открытие или ровно на
	// последнее время приёма проходит
	if startTime.IsBefore(openTime) || startTime.IsAfter(lastTime) {
		return ErrOutsideHours
	}
	return nil
}

// validateWithinDay требует, чтобы окно [start, start+duration] заканчивалось
// не позже 24:00: перенос хвоста на следующие сутки не поддерживается
func validateWithinDay(startTime types.TimeString, durationMinutes int) error {
	if _, err := startTime.AddMinutes(durationMinutes); err != nil {
		return ErrCrossesMidnight
	}
	return nil
}

func validatePartySize(pol *domain.ReservationPolicy, partySize int) error {
	if partySize < pol.MinPartySize {
		return ErrPartyTooSmall
	}
	if partySize > pol.MaxPartySize {
		return ErrPartyTooLarge
	}
	return nil
}

// CheckModificationDeadline проверяет, что до текущего запланированного
// времени брони остаётся строго больше дедлайна изменения
func CheckModificationDeadline(res *domain.Reservation, pol *domain.ReservationPolicy, now time.Time) error {
	deadline := res.StartsAt(now.Location()).Add(-time.Duration(pol.ModificationDeadlineHrs) * time.Hour)
	if !now.Before(deadline) {
		return ErrModificationDeadline
	}
	return nil
}

// IsLateCancellation возвращает true, если отмена происходит внутри дедлайна
// отмены и влечёт штраф
func IsLateCancellation(res *domain.Reservation, pol *domain.ReservationPolicy, now time.Time) bool {
	if pol.CancellationDeadlineHrs == 0 {
		return false
	}
	deadline := res.StartsAt(now.Location()).Add(-time.Duration(pol.CancellationDeadlineHrs) * time.Hour)
	return !now.Before(deadline)
}

// DepositRequired возвращает, нужен ли депозит, и его сумму.
// Депозит требуется для больших компаний (порог из политики) и на blackout
// даты ресторана.
func DepositRequired(
	restaurant *restaurantservice.Restaurant,
	pol *domain.ReservationPolicy,
	date time.Time,
	partySize int,
) (bool, float64) {
	if pol.DepositPerGuest <= 0 {
		return false, 0
	}
	if pol.RequiresDeposit(partySize) || restaurant.IsBlackoutDate(date.Format(domain.DateFormat)) {
		return true, pol.DepositPerGuest * float64(partySize)
	}
	return false, 0
}

// ScheduleForDay возвращает расписание ресторана на день недели указанной даты
func ScheduleForDay(restaurant *restaurantservice.Restaurant, date time.Time) restaurantservice.DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return restaurant.WorkingHours.Monday
	case time.Tuesday:
		return restaurant.WorkingHours.Tuesday
	case time.Wednesday:
		return restaurant.WorkingHours.Wednesday
	case time.Thursday:
		return restaurant.WorkingHours.Thursday
	case time.Friday:
		return restaurant.WorkingHours.Friday
	case time.Saturday:
		return restaurant.WorkingHours.Saturday
	case time.Sunday:
		return restaurant.WorkingHours.Sunday
	default:
		return restaurantservice.DaySchedule{IsOpen: false}
	}
}
