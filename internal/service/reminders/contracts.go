package reminders

import (
	"context"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	ListDueReminders(ctx context.Context, date time.Time, fromTime, toTime types.TimeString) ([]*domain.Reservation, error)
	MarkReminderSent(ctx context.Context, id int64, at time.Time) error
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetByRestaurant(ctx context.Context, restaurantID int64) (*domain.ReservationPolicy, error)
}

// EventPublisher интерфейс публикации событий напоминаний
type EventPublisher interface {
	ReservationReminder(ctx context.Context, event events.ReservationReminderEvent) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
