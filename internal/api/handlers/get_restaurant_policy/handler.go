package get_restaurant_policy

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/RST-ReservationService/internal/api/handlers"
)

const (
	msgInvalidRestaurantID = "некорректный ID ресторана"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/restaurants/{restaurantId}/policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем restaurantId из URL
	vars := mux.Vars(r)
	restaurantIDStr := vars["restaurantId"]

	restaurantID, err := strconv.ParseInt(restaurantIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /restaurants/{id}/policy - Invalid restaurant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRestaurantID)
		return
	}

	// Получаем политику (ресторан без своей политики получает дефолтную)
	result, err := h.service.GetByRestaurant(r.Context(), restaurantID)
	if err != nil {
		h.logger.Error("GET /restaurants/{id}/policy - Failed to get policy: restaurant_id=%d, error=%v",
			restaurantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /restaurants/{id}/policy - Policy retrieved successfully: restaurant_id=%d, is_default=%t",
		restaurantID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
