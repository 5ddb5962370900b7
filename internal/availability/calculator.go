package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// Calculator подбирает свободные столы под запрошенное окно брони
type Calculator struct {
	tables       TableRepository
	reservations ReservationRepository
	logger       Logger
}

func NewCalculator(tables TableRepository, reservations ReservationRepository, logger Logger) *Calculator {
	return &Calculator{
		tables:       tables,
		reservations: reservations,
		logger:       logger,
	}
}

// FindCandidates возвращает столы, свободные в окне [startTime, startTime+duration)
// на указанную дату, в порядке выбора: минимальная достаточная вместимость,
// при равной вместимости - дольше всех не назначавшийся стол.
//
// Возвращает ErrPartyUnserviceable, если ни один стол ресторана не вмещает
// группу, и ErrNoTablesAvailable, если подходящие столы есть, но все заняты.
func (c *Calculator) FindCandidates(ctx context.Context, restaurantID int64, date time.Time, startTime types.TimeString, durationMinutes, partySize int) ([]*domain.Table, error) {
	return c.findCandidates(ctx, restaurantID, date, startTime, durationMinutes, partySize, 0)
}

// FindCandidatesForChange то же, что FindCandidates, но не считает занятостью
// пересечение с изменяемой бронью: при переносе её старое окно освобождается.
func (c *Calculator) FindCandidatesForChange(ctx context.Context, restaurantID int64, date time.Time, startTime types.TimeString, durationMinutes, partySize int, excludeReservationID int64) ([]*domain.Table, error) {
	return c.findCandidates(ctx, restaurantID, date, startTime, durationMinutes, partySize, excludeReservationID)
}

func (c *Calculator) findCandidates(ctx context.Context, restaurantID int64, date time.Time, startTime types.TimeString, durationMinutes, partySize int, excludeReservationID int64) ([]*domain.Table, error) {
	tables, err := c.tables.GetActiveByRestaurant(ctx, restaurantID)
	if err != nil {
		c.logger.Error("FindCandidates: failed to load tables for restaurant %d: %v", restaurantID, err)
		return nil, fmt.Errorf("%w: load tables: %v", ErrInternal, err)
	}

	anyFits := false
	candidates := make([]*domain.Table, 0, len(tables))
	for _, table := range tables {
		if !table.Fits(partySize) {
			continue
		}
		anyFits = true

		overlapping, err := c.reservations.FindOverlapping(ctx, table.ID, date, startTime, durationMinutes)
		if err != nil {
			c.logger.Error("FindCandidates: overlap check failed for table %d: %v", table.ID, err)
			return nil, fmt.Errorf("%w: check overlaps: %v", ErrInternal, err)
		}

		busy := false
		for _, res := range overlapping {
			if excludeReservationID != 0 && res.ID == excludeReservationID {
				continue
			}
			busy = true
			break
		}
		if busy {
			continue
		}

		candidates = append(candidates, table)
	}

	if !anyFits {
		return nil, ErrPartyUnserviceable
	}
	if len(candidates) == 0 {
		return nil, ErrNoTablesAvailable
	}

	return candidates, nil
}
