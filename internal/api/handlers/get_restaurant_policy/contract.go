package get_restaurant_policy

import (
	"context"

	"github.com/m04kA/RST-ReservationService/internal/service/policies/models"
)

type PolicyService interface {
	GetByRestaurant(ctx context.Context, restaurantID int64) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
