package create_reservation

import (
	"time"

	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// Request модель запроса на создание брони
type Request struct {
	UserID       int64            // ID гостя
	RestaurantID int64            // ID ресторана
	Date         time.Time        // Дата брони (без времени)
	StartTime    types.TimeString // Время начала (например, "19:00")
	PartySize    int              // Размер компании
	GuestName    string           // Имя, на которое оформлена бронь
	GuestPhone   *string          // Контактный телефон (опционально)
	Notes        *string          // Пожелания гостя (опционально)
}

// Response модель ответа с созданной бронью
type Response struct {
	ID               int64            // ID созданной брони
	ConfirmationCode string           // Код подтверждения (уникален в рамках ресторана)
	UserID           int64            // ID гостя
	RestaurantID     int64            // ID ресторана
	TableID          int64            // ID назначенного стола
	TableLabel       string           // Обозначение стола
	Date             time.Time        // Дата брони
	StartTime        types.TimeString // Время начала
	DurationMinutes  int              // Длительность, зафиксированная при создании
	PartySize        int              // Размер компании
	Status           string           // Статус брони
	DepositAmount    float64          // Сумма авторизованного депозита (0, если не требовался)
	GuestName        string           // Имя гостя
	GuestPhone       *string          // Телефон гостя
	Notes            *string          // Пожелания

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
