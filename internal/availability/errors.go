package availability

import "errors"

var (
	// ErrPartyUnserviceable ни один стол ресторана не подходит под размер группы
	ErrPartyUnserviceable = errors.New("no table can seat a party of this size")
	// ErrNoTablesAvailable все подходящие столы заняты в запрошенное время
	ErrNoTablesAvailable = errors.New("all suitable tables are occupied at the requested time")
	// ErrInternal внутренняя ошибка при расчёте доступности
	ErrInternal = errors.New("availability check failed")
)
