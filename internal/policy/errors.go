package policy

import (
	"errors"
	"fmt"
)

// ErrPolicyViolation общий класс ошибок нарушения правил бронирования.
// Все конкретные ошибки пакета оборачивают его, поэтому handlers могут
// проверять и класс целиком, и конкретное правило.
var ErrPolicyViolation = errors.New("policy violation")

var (
	// ErrDateInPast возвращается, когда запрошенное время уже прошло
	ErrDateInPast = fmt.Errorf("%w: requested time is in the past", ErrPolicyViolation)

	// ErrTooFarInAdvance возвращается при превышении окна предварительного бронирования
	ErrTooFarInAdvance = fmt.Errorf("%w: requested date is beyond the advance booking window", ErrPolicyViolation)

	// ErrRestaurantClosed возвращается, когда ресторан закрыт в запрошенный день
	ErrRestaurantClosed = fmt.Errorf("%w: restaurant is closed on this day", ErrPolicyViolation)

	// ErrOutsideHours возвращается, когда время вне интервала приёма броней
	ErrOutsideHours = fmt.Errorf("%w: requested time is outside reservation hours", ErrPolicyViolation)

	// ErrPartyTooSmall возвращается, когда размер компании меньше минимального
	ErrPartyTooSmall = fmt.Errorf("%w: party size is below the restaurant minimum", ErrPolicyViolation)

	// ErrPartyTooLarge возвращается, когда размер компании больше максимального
	ErrPartyTooLarge = fmt.Errorf("%w: party size is above the restaurant maximum", ErrPolicyViolation)

	// ErrCrossesMidnight возвращается, когда окно брони выходит за конец суток
	ErrCrossesMidnight = fmt.Errorf("%w: reservation window would cross midnight", ErrPolicyViolation)

	// ErrModificationDeadline возвращается, когда дедлайн изменения брони уже прошёл
	ErrModificationDeadline = fmt.Errorf("%w: modification deadline has passed", ErrPolicyViolation)

	// ErrInvalidSchedule возвращается при некорректном расписании ресторана
	ErrInvalidSchedule = fmt.Errorf("%w: restaurant schedule is malformed", ErrPolicyViolation)
)
