package update_restaurant_policy

import (
	"context"

	"github.com/m04kA/RST-ReservationService/internal/service/policies/models"
)

type PolicyService interface {
	Update(ctx context.Context, restaurantID int64, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
