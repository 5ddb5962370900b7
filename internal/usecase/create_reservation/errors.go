package create_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/RST-ReservationService/pkg/types"
)

var (
	// ErrRestaurantNotFound возвращается, когда ресторан не найден
	ErrRestaurantNotFound = errors.New("create_reservation: restaurant not found")

	// ErrNoAvailability возвращается, когда подходящие столы есть, но все заняты
	ErrNoAvailability = errors.New("create_reservation: no tables available at requested time")

	// ErrPartyUnserviceable возвращается, когда ни один стол ресторана не вмещает группу
	ErrPartyUnserviceable = errors.New("create_reservation: no table can seat this party")

	// ErrDuplicateReservation возвращается, когда у гостя уже есть активная бронь
	// в этом ресторане в близкое время
	ErrDuplicateReservation = errors.New("create_reservation: user already has an active reservation around this time")

	// ErrDepositDeclined возвращается, когда платёжный сервис отклонил требуемый депозит
	ErrDepositDeclined = errors.New("create_reservation: deposit authorization declined")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)

// NoAvailabilityError несёт ближайшие свободные времена для ответа клиенту.
// Оборачивает ErrNoAvailability, так что errors.Is продолжает работать.
type NoAvailabilityError struct {
	Alternatives []types.TimeString
}

func (e *NoAvailabilityError) Error() string {
	return fmt.Sprintf("%v (%d alternatives)", ErrNoAvailability, len(e.Alternatives))
}

func (e *NoAvailabilityError) Unwrap() error {
	return ErrNoAvailability
}
