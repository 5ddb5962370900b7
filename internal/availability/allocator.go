package availability

import "github.com/m04kA/RST-ReservationService/internal/domain"

// Allocate выбирает стол из списка кандидатов. Выбор детерминированный:
// первый кандидат, то есть минимальная достаточная вместимость и самое
// давнее последнее назначение.
func Allocate(candidates []*domain.Table) (*domain.Table, error) {
	if len(candidates) == 0 {
		return nil, ErrNoTablesAvailable
	}
	return candidates[0], nil
}
