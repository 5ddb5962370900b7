package modify_reservation

import (
	"time"

	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// Request модель запроса на изменение брони. Поля-указатели опциональны:
// nil означает "оставить как есть". Длительность изменить нельзя - она
// зафиксирована при создании.
type Request struct {
	ReservationID int64             // ID изменяемой брони
	UserID        int64             // ID пользователя, выполняющего изменение
	Date          *time.Time        // Новая дата (опционально)
	StartTime     *types.TimeString // Новое время начала (опционально)
	PartySize     *int              // Новый размер компании (опционально)
}

// Response модель ответа с изменённой бронью
type Response struct {
	ID               int64            // ID брони
	ConfirmationCode string           // Код подтверждения (не меняется)
	UserID           int64            // ID гостя
	RestaurantID     int64            // ID ресторана
	TableID          int64            // ID назначенного стола (мог смениться)
	TableLabel       string           // Обозначение стола
	Date             time.Time        // Дата брони
	StartTime        types.TimeString // Время начала
	DurationMinutes  int              // Длительность (без изменений)
	PartySize        int              // Размер компании
	Status           string           // Статус брони
	DepositAmount    float64          // Сумма депозита (без изменений)
	GuestName        string           // Имя гостя
	GuestPhone       *string          // Телефон гостя
	Notes            *string          // Пожелания

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
