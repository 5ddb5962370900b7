package create_reservation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/RST-ReservationService/internal/api/handlers"
	"github.com/m04kA/RST-ReservationService/internal/api/middleware"
	"github.com/m04kA/RST-ReservationService/internal/policy"
	createReservation "github.com/m04kA/RST-ReservationService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateOrTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgRestaurantNotFound   = "ресторан не найден"
	msgNoAvailability       = "на выбранное время нет свободных столов"
	msgPartyUnserviceable   = "в ресторане нет стола, вмещающего компанию такого размера"
	msgDuplicateReservation = "у вас уже есть активная бронь в этом ресторане на близкое время"
	msgDepositDeclined      = "не удалось авторизовать депозит"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, req, userID, err)
		return
	}

	h.logger.Info("POST /reservations - Reservation created: reservation_id=%d, user_id=%d, restaurant_id=%d",
		result.ID, userID, req.RestaurantID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, req CreateReservationRequest, userID int64, err error) {
	switch {
	case errors.Is(err, createReservation.ErrNoAvailability):
		h.logger.Warn("POST /reservations - No availability: user_id=%d, restaurant_id=%d, time=%s",
			userID, req.RestaurantID, req.StartTime)

		// При наличии подсказок отдаём их вместе с отказом
		var noAvail *createReservation.NoAvailabilityError
		alternatives := []string{}
		if errors.As(err, &noAvail) {
			for _, ts := range noAvail.Alternatives {
				alternatives = append(alternatives, ts.String())
			}
		}
		handlers.RespondJSON(w, http.StatusConflict, NoAvailabilityResponse{
			Code:         http.StatusConflict,
			Message:      msgNoAvailability,
			Alternatives: alternatives,
		})

	case errors.Is(err, createReservation.ErrPartyUnserviceable):
		h.logger.Warn("POST /reservations - Party unserviceable: user_id=%d, restaurant_id=%d, party=%d",
			userID, req.RestaurantID, req.PartySize)
		handlers.RespondError(w, http.StatusConflict, msgPartyUnserviceable)

	case errors.Is(err, createReservation.ErrDuplicateReservation):
		h.logger.Warn("POST /reservations - Duplicate reservation: user_id=%d, restaurant_id=%d",
			userID, req.RestaurantID)
		handlers.RespondError(w, http.StatusConflict, msgDuplicateReservation)

	case errors.Is(err, createReservation.ErrRestaurantNotFound):
		h.logger.Warn("POST /reservations - Restaurant not found: restaurant_id=%d", req.RestaurantID)
		handlers.RespondNotFound(w, msgRestaurantNotFound)

	case errors.Is(err, createReservation.ErrDepositDeclined):
		h.logger.Warn("POST /reservations - Deposit declined: user_id=%d, restaurant_id=%d",
			userID, req.RestaurantID)
		handlers.RespondError(w, http.StatusPaymentRequired, msgDepositDeclined)

	case errors.Is(err, policy.ErrPolicyViolation):
		h.logger.Warn("POST /reservations - Policy violation: user_id=%d, restaurant_id=%d, error=%v",
			userID, req.RestaurantID, err)
		handlers.RespondError(w, http.StatusUnprocessableEntity, policyViolationMessage(err))

	case errors.Is(err, createReservation.ErrInvalidInput):
		h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	default:
		h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, restaurant_id=%d, error=%v",
			userID, req.RestaurantID, err)
		handlers.RespondInternalError(w)
	}
}

// policyViolationMessage переводит нарушения правил в сообщения для клиента
func policyViolationMessage(err error) string {
	switch {
	case errors.Is(err, policy.ErrDateInPast):
		return "время брони уже прошло"
	case errors.Is(err, policy.ErrTooFarInAdvance):
		return "дата брони слишком далеко в будущем"
	case errors.Is(err, policy.ErrRestaurantClosed):
		return "ресторан закрыт в выбранную дату"
	case errors.Is(err, policy.ErrOutsideHours):
		return "выбранное время вне часов приёма броней"
	case errors.Is(err, policy.ErrPartyTooSmall):
		return "компания меньше минимального размера для брони"
	case errors.Is(err, policy.ErrPartyTooLarge):
		return "компания больше максимального размера для брони"
	case errors.Is(err, policy.ErrModificationDeadline):
		return "срок изменения брони истёк"
	default:
		return fmt.Sprintf("запрос нарушает правила бронирования: %v", err)
	}
}
