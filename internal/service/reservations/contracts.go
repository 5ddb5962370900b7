package reservations

import (
	"context"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/internal/integrations/guestservice"
	"github.com/m04kA/RST-ReservationService/internal/integrations/restaurantservice"
)

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	Search(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	Count(ctx context.Context, filter domain.ReservationsFilter) (int64, error)
	UpdateStatus(ctx context.Context, id int64, fromStatus, toStatus domain.ReservationStatus, at time.Time) error
	Cancel(ctx context.Context, id int64, reason *string, fee float64, at time.Time) error
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetByRestaurant(ctx context.Context, restaurantID int64) (*domain.ReservationPolicy, error)
}

// RestaurantServiceClient интерфейс клиента для RestaurantService
type RestaurantServiceClient interface {
	GetRestaurant(ctx context.Context, restaurantID int64) (*restaurantservice.Restaurant, error)
}

// GuestServiceClient интерфейс клиента для GuestService
type GuestServiceClient interface {
	IncrementNoShow(ctx context.Context, userID int64) (*guestservice.NoShowResult, error)
}

// EventPublisher интерфейс публикации событий брони
type EventPublisher interface {
	ReservationCancelled(ctx context.Context, event events.ReservationCancelledEvent) error
	GuestFlagged(ctx context.Context, event events.GuestFlaggedEvent) error
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
