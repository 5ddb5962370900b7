package availability

import (
	"context"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// TableRepository интерфейс репозитория столов
type TableRepository interface {
	// GetActiveByRestaurant возвращает столы уже в порядке выбора кандидатов:
	// вместимость по возрастанию, затем дольше всех не использовавшиеся
	GetActiveByRestaurant(ctx context.Context, restaurantID int64) ([]*domain.Table, error)
}

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	FindOverlapping(ctx context.Context, tableID int64, date time.Time, startTime types.TimeString, durationMinutes int) ([]*domain.Reservation, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
