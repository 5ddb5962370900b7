package modify_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/RST-ReservationService/internal/api/handlers"
	"github.com/m04kA/RST-ReservationService/internal/api/middleware"
	"github.com/m04kA/RST-ReservationService/internal/policy"
	modifyReservation "github.com/m04kA/RST-ReservationService/internal/usecase/modify_reservation"
)

const (
	msgInvalidReservationID = "некорректный ID брони"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateOrTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "бронь не найдена"
	msgForbidden            = "доступ запрещен"
	msgNotModifiable        = "бронь уже нельзя изменить"
	msgDeadlinePassed       = "срок изменения брони истёк"
	msgNoAvailability       = "на новое время нет свободных столов"
	msgPartyUnserviceable   = "в ресторане нет стола, вмещающего компанию такого размера"
	msgPolicyViolation      = "запрос нарушает правила бронирования"
)

type Handler struct {
	useCase ModifyReservationUseCase
	logger  Logger
}

func NewHandler(useCase ModifyReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем reservationId из URL
	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ModifyReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(reservationID, userID)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, modifyReservation.ErrReservationNotFound),
			errors.Is(err, modifyReservation.ErrRestaurantNotFound):
			h.logger.Warn("PATCH /reservations/{id} - Not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, modifyReservation.ErrForbidden):
			h.logger.Warn("PATCH /reservations/{id} - Access denied: reservation_id=%d, user_id=%d",
				reservationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, modifyReservation.ErrNotModifiable):
			h.logger.Warn("PATCH /reservations/{id} - Not modifiable: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgNotModifiable)

		case errors.Is(err, policy.ErrModificationDeadline):
			h.logger.Warn("PATCH /reservations/{id} - Deadline passed: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgDeadlinePassed)

		case errors.Is(err, modifyReservation.ErrNoAvailability):
			h.logger.Warn("PATCH /reservations/{id} - No availability: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgNoAvailability)

		case errors.Is(err, modifyReservation.ErrPartyUnserviceable):
			h.logger.Warn("PATCH /reservations/{id} - Party unserviceable: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgPartyUnserviceable)

		case errors.Is(err, policy.ErrPolicyViolation):
			h.logger.Warn("PATCH /reservations/{id} - Policy violation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgPolicyViolation)

		case errors.Is(err, modifyReservation.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id} - Invalid input: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /reservations/{id} - Failed to modify reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id} - Reservation modified: reservation_id=%d, user_id=%d",
		reservationID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
