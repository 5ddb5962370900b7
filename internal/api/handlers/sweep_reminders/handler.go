package sweep_reminders

import (
	"net/http"

	"github.com/m04kA/RST-ReservationService/internal/api/handlers"
)

// SweepResponse результат прогона рассылки напоминаний
type SweepResponse struct {
	Sent int `json:"sent"`
}

type Handler struct {
	service ReminderService
	logger  Logger
}

func NewHandler(service ReminderService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /internal/v1/reminders/sweep
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sent, err := h.service.Sweep(r.Context())
	if err != nil {
		h.logger.Error("POST /internal/v1/reminders/sweep - Sweep failed: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/v1/reminders/sweep - Sweep completed: sent=%d", sent)
	handlers.RespondJSON(w, http.StatusOK, &SweepResponse{Sent: sent})
}
