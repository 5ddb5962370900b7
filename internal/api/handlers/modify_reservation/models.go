package modify_reservation

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	modifyReservation "github.com/m04kA/RST-ReservationService/internal/usecase/modify_reservation"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// ModifyReservationRequest HTTP request model. Поля опциональны:
// отсутствующее поле остаётся без изменений.
type ModifyReservationRequest struct {
	Date      *string `json:"date,omitempty"`      // "2025-10-15"
	StartTime *string `json:"startTime,omitempty"` // "19:00"
	PartySize *int    `json:"partySize,omitempty"`
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

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ModifyReservationRequest) ToUseCaseRequest(reservationID, userID int64) (*modifyReservation.Request, error) {
	req := &modifyReservation.Request{
		ReservationID: reservationID,
		UserID:        userID,
		PartySize:     r.PartySize,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if r.StartTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &startTime
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *modifyReservation.Response) *ReservationResponse {
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
