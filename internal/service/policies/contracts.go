package policies

import (
	"context"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/internal/integrations/restaurantservice"
)

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetByRestaurant(ctx context.Context, restaurantID int64) (*domain.ReservationPolicy, error)
	Upsert(ctx context.Context, p *domain.ReservationPolicy) (*domain.ReservationPolicy, error)
}

// RestaurantServiceClient интерфейс клиента для RestaurantService
type RestaurantServiceClient interface {
	GetRestaurant(ctx context.Context, restaurantID int64) (*restaurantservice.Restaurant, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
