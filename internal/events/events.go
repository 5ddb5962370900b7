// Package events определяет доменные события движка бронирования.
// События потребляются внешними сервисами доставки уведомлений и аналитики;
// сам движок ничего не отправляет гостям.
package events

import "time"

// Имена очередей (durable)
const (
	QueueReservationConfirmed = "reservation.confirmed"
	QueueReservationUpdated   = "reservation.updated"
	QueueReservationCancelled = "reservation.cancelled"
	QueueReservationReminder  = "reservation.reminder"
	QueueGuestFlagged         = "guest.flagged"
)

// Envelope общий конверт события
type Envelope struct {
	EventID    string      `json:"event_id"`
	Kind       string      `json:"kind"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// ReservationConfirmedEvent публикуется после успешного создания брони.
// Содержит всё необходимое потребителям, чтобы не ходить в основную БД.
type ReservationConfirmedEvent struct {
	ReservationID    int64   `json:"reservation_id"`
	ConfirmationCode string  `json:"confirmation_code"`
	UserID           int64   `json:"user_id"`
	RestaurantID     int64   `json:"restaurant_id"`
	TableLabel       string  `json:"table_label"`
	Date             string  `json:"date"`       // "2025-10-15"
	StartTime        string  `json:"start_time"` // "19:00"
	DurationMinutes  int     `json:"duration_minutes"`
	PartySize        int     `json:"party_size"`
	DepositAmount    float64 `json:"deposit_amount,omitempty"`
}

// ReservationUpdatedEvent публикуется после изменения времени/состава брони
type ReservationUpdatedEvent struct {
	ReservationID    int64  `json:"reservation_id"`
	ConfirmationCode string `json:"confirmation_code"`
	UserID           int64  `json:"user_id"`
	RestaurantID     int64  `json:"restaurant_id"`
	TableLabel       string `json:"table_label"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	DurationMinutes  int    `json:"duration_minutes"`
	PartySize        int    `json:"party_size"`
}

// ReservationCancelledEvent публикуется после отмены брони
type ReservationCancelledEvent struct {
	ReservationID    int64   `json:"reservation_id"`
	ConfirmationCode string  `json:"confirmation_code"`
	UserID           int64   `json:"user_id"`
	RestaurantID     int64   `json:"restaurant_id"`
	Date             string  `json:"date"`
	StartTime        string  `json:"start_time"`
	CancellationFee  float64 `json:"cancellation_fee"`
	Reason           *string `json:"reason,omitempty"`
}

// ReservationReminderEvent публикуется периодической разверткой напоминаний
type ReservationReminderEvent struct {
	ReservationID    int64  `json:"reservation_id"`
	ConfirmationCode string `json:"confirmation_code"`
	UserID           int64  `json:"user_id"`
	RestaurantID     int64  `json:"restaurant_id"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	PartySize        int    `json:"party_size"`
}

// GuestFlaggedEvent публикуется, когда счётчик неявок гостя достигает порога
type GuestFlaggedEvent struct {
	UserID      int64 `json:"user_id"`
	NoShowCount int   `json:"no_show_count"`
}
