package availability

import (
	"sort"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// DefaultTimeStepMinutes шаг сетки стартовых времён
const DefaultTimeStepMinutes = 30

// ComputeFreeTimes строит список стартовых времён, на которые есть хотя бы
// один свободный стол под группу. Сетка идёт с шагом stepMinutes от открытия
// до последнего допустимого старта включительно. Ожидает только активные
// брони дня, сгруппировка по столам выполняется внутри.
func ComputeFreeTimes(tables []*domain.Table, reservations []*domain.Reservation, open, last types.TimeString, durationMinutes, partySize, stepMinutes int) []types.TimeString {
	if stepMinutes <= 0 {
		stepMinutes = DefaultTimeStepMinutes
	}

	byTable := make(map[int64][]*domain.Reservation, len(tables))
	for _, res := range reservations {
		if res.TableID == nil {
			continue
		}
		byTable[*res.TableID] = append(byTable[*res.TableID], res)
	}

	var free []types.TimeString
	for slot := open; !slot.IsAfter(last); {
		// Старт, окно которого не помещается до конца суток, не предлагаем:
		// такую бронь отклонит и проверка правил
		if _, err := slot.AddMinutes(durationMinutes); err != nil {
			break
		}
		if slotHasFreeTable(tables, byTable, slot, durationMinutes, partySize) {
			free = append(free, slot)
		}

		next, err := slot.AddMinutes(stepMinutes)
		if err != nil {
			break
		}
		slot = next
	}

	return free
}

func slotHasFreeTable(tables []*domain.Table, byTable map[int64][]*domain.Reservation, slot types.TimeString, durationMinutes, partySize int) bool {
	for _, table := range tables {
		if !table.Fits(partySize) {
			continue
		}

		busy := false
		for _, res := range byTable[table.ID] {
			if res.Overlaps(slot, durationMinutes) {
				busy = true
				break
			}
		}
		if !busy {
			return true
		}
	}
	return false
}

// NearestAlternatives возвращает до limit свободных времён, ближайших к
// запрошенному. При равном расстоянии приоритет у более раннего времени.
func NearestAlternatives(freeTimes []types.TimeString, requested types.TimeString, limit int) []types.TimeString {
	if limit <= 0 || len(freeTimes) == 0 {
		return nil
	}

	requestedMin, err := requested.Minutes()
	if err != nil {
		return nil
	}

	type scored struct {
		time     types.TimeString
		distance int
	}
	items := make([]scored, 0, len(freeTimes))
	for _, ts := range freeTimes {
		m, err := ts.Minutes()
		if err != nil {
			continue
		}
		d := m - requestedMin
		if d < 0 {
			d = -d
		}
		items = append(items, scored{time: ts, distance: d})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].distance != items[j].distance {
			return items[i].distance < items[j].distance
		}
		return items[i].time.IsBefore(items[j].time)
	})

	if limit > len(items) {
		limit = len(items)
	}
	result := make([]types.TimeString, 0, limit)
	for _, it := range items[:limit] {
		result = append(result, it.time)
	}
	return result
}
