package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/events"
	"github.com/m04kA/RST-ReservationService/internal/integrations/paymentservice"
	"github.com/m04kA/RST-ReservationService/internal/integrations/restaurantservice"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	FindActiveByUserAround(ctx context.Context, userID, restaurantID int64, date time.Time, startTime types.TimeString, windowMinutes int) ([]*domain.Reservation, error)
	Search(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
}

// TableRepository интерфейс репозитория столов
type TableRepository interface {
	GetActiveByRestaurant(ctx context.Context, restaurantID int64) ([]*domain.Table, error)
	TouchAssigned(ctx context.Context, tableID int64, at time.Time) error
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetByRestaurant(ctx context.Context, restaurantID int64) (*domain.ReservationPolicy, error)
}

// AvailabilityCalculator интерфейс подбора свободных столов
type AvailabilityCalculator interface {
	FindCandidates(ctx context.Context, restaurantID int64, date time.Time, startTime types.TimeString, durationMinutes, partySize int) ([]*domain.Table, error)
}

// RestaurantServiceClient интерфейс клиента для RestaurantService
type RestaurantServiceClient interface {
	GetRestaurant(ctx context.Context, restaurantID int64) (*restaurantservice.Restaurant, error)
}

// PaymentServiceClient интерфейс клиента для PaymentService
type PaymentServiceClient interface {
	AuthorizeDeposit(ctx context.Context, req paymentservice.DepositRequest) (*paymentservice.DepositAuthorization, error)
}

// EventPublisher интерфейс публикации событий брони
type EventPublisher interface {
	ReservationConfirmed(ctx context.Context, event events.ReservationConfirmedEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
