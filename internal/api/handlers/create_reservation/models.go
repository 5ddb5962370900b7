package create_reservation

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	createReservation "github.com/m04kA/RST-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	RestaurantID int64   `json:"restaurantId"`
	Date         string  `json:"date"`      // "2025-10-15"
	StartTime    string  `json:"startTime"` // "19:00"
	PartySize    int     `json:"partySize"`
	GuestName    string  `json:"guestName"`
	GuestPhone   *string `json:"guestPhone,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID               int64   `json:"id"`
	ConfirmationCode string  `json:"confirmationCode"`
	UserID           int64   `json:"userId"`
	RestaurantID     int64   `json:"restaurantId"`
	TableID          int64   `json:"tableId"`
	TableLabel       string  `json:"tableLabel"`
	Date             string  `json:"date"`
	StartTime        string  `json:"startTime"`
	DurationMinutes  int     `json:"durationMinutes"`
	PartySize        int     `json:"partySize"`
	Status           string  `json:"status"`
	DepositAmount    float64 `json:"depositAmount,omitempty"`
	GuestName        string  `json:"guestName"`
	GuestPhone       *string `json:"guestPhone,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// NoAvailabilityResponse ответ при занятости всех столов: ближайшие
// свободные времена в качестве подсказки
type NoAvailabilityResponse struct {
	Code         int      `json:"code"`
	Message      string   `json:"message"`
	Alternatives []string `json:"alternatives"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		UserID:       userID,
		RestaurantID: r.RestaurantID,
		Date:         date,
		StartTime:    startTime,
		PartySize:    r.PartySize,
		GuestName:    r.GuestName,
		GuestPhone:   r.GuestPhone,
		Notes:        r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:               resp.ID,
		ConfirmationCode: resp.ConfirmationCode,
		UserID:           resp.UserID,
		RestaurantID:     resp.RestaurantID,
		TableID:          resp.TableID,
		TableLabel:       resp.TableLabel,
		Date:             resp.Date.Format(domain.DateFormat),
		StartTime:        resp.StartTime.String(),
		DurationMinutes:  resp.DurationMinutes,
		PartySize:        resp.PartySize,
		Status:           resp.Status,
		DepositAmount:    resp.DepositAmount,
		GuestName:        resp.GuestName,
		GuestPhone:       resp.GuestPhone,
		Notes:            resp.Notes,
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        resp.UpdatedAt.Format(time.RFC3339),
	}
}
