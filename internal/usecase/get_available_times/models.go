package get_available_times

import (
	"time"

	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// Request модель запроса на получение свободных времён
type Request struct {
	RestaurantID int64     // ID ресторана
	Date         time.Time // Дата (без времени)
	PartySize    int       // Размер компании
}

// Response модель ответа со списком свободных стартовых времён
type Response struct {
	RestaurantID    int64              // ID ресторана
	Date            time.Time          // Дата, на которую запрашивались времена
	PartySize       int                // Размер компании
	DurationMinutes int                // Длительность брони по политике ресторана
	Times           []types.TimeString // Времена, на которые есть свободный стол
}
