package modify_reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронь не найдена
	ErrReservationNotFound = errors.New("modify_reservation: reservation not found")

	// ErrRestaurantNotFound возвращается, когда ресторан брони больше не найден
	ErrRestaurantNotFound = errors.New("modify_reservation: restaurant not found")

	// ErrForbidden возвращается, когда пользователь не владелец брони и не сотрудник
	ErrForbidden = errors.New("modify_reservation: access denied")

	// ErrNotModifiable возвращается, когда бронь не в статусе confirmed
	ErrNotModifiable = errors.New("modify_reservation: reservation can no longer be modified")

	// ErrNoAvailability возвращается, когда на новое время нет свободных столов
	ErrNoAvailability = errors.New("modify_reservation: no tables available at requested time")

	// ErrPartyUnserviceable возвращается, когда ни один стол не вмещает новый состав
	ErrPartyUnserviceable = errors.New("modify_reservation: no table can seat this party")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("modify_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("modify_reservation: internal error")
)
