package get_available_times

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	getAvailableTimes "github.com/m04kA/RST-ReservationService/internal/usecase/get_available_times"
)

// AvailableTimesResponse HTTP response model
type AvailableTimesResponse struct {
	RestaurantID    int64    `json:"restaurantId"`
	Date            string   `json:"date"`
	PartySize       int      `json:"partySize"`
	DurationMinutes int      `json:"durationMinutes"`
	Times           []string `json:"times"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableTimes.Response) *AvailableTimesResponse {
	times := make([]string, len(resp.Times))
	for i, t := range resp.Times {
		times[i] = t.String()
	}

	return &AvailableTimesResponse{
		RestaurantID:    resp.RestaurantID,
		Date:            resp.Date.Format(domain.DateFormat),
		PartySize:       resp.PartySize,
		DurationMinutes: resp.DurationMinutes,
		Times:           times,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(restaurantID int64, dateStr string, partySize int) (*getAvailableTimes.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableTimes.Request{
		RestaurantID: restaurantID,
		Date:         date,
		PartySize:    partySize,
	}, nil
}
