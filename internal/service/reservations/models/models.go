package models

import (
	"errors"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// CancelReservationRequest запрос на отмену брони
type CancelReservationRequest struct {
	UserID             int64   `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	// WaiveFee списать штраф за позднюю отмену (только менеджер ресторана)
	WaiveFee bool `json:"waiveFee,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса брони (seated/completed/no_show)
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetUserReservationsRequest запрос на получение броней пользователя
type GetUserReservationsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// SearchReservationsRequest запрос на получение броней ресторана
type SearchReservationsRequest struct {
	UserID          int64      `json:"userId"`
	RestaurantID    int64      `json:"restaurantId"`
	TableID         *int64     `json:"tableId,omitempty"`         // Фильтр по столу (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые и завершённые
	Page            uint64     `json:"page,omitempty"`
	PageSize        uint64     `json:"pageSize,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *SearchReservationsRequest) ToDomainFilter() (domain.ReservationsFilter, error) {
	filter := domain.ReservationsFilter{
		RestaurantID:    r.RestaurantID,
		TableID:         r.TableID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainReservationStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	// Пагинация
	pageSize := r.PageSize
	if pageSize == 0 {
		pageSize = domain.DefaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}
	page := r.Page
	if page == 0 {
		page = 1
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными брони
type ReservationResponse struct {
	ID               int64  `json:"id"`
	ConfirmationCode string `json:"confirmationCode"`
	UserID           int64  `json:"userId"`
	RestaurantID     int64  `json:"restaurantId"`
	TableID          *int64 `json:"tableId,omitempty"`
	Date             string `json:"date"`      // "2025-10-15"
	StartTime        string `json:"startTime"` // "19:00"
	DurationMinutes  int    `json:"durationMinutes"`
	PartySize        int    `json:"partySize"`
	Status           string `json:"status"`

	DepositAmount float64 `json:"depositAmount,omitempty"`
	GuestName     string  `json:"guestName"`
	GuestPhone    *string `json:"guestPhone,omitempty"`
	Notes         *string `json:"notes,omitempty"`

	CancellationReason *string  `json:"cancellationReason,omitempty"`
	CancellationFee    float64  `json:"cancellationFee,omitempty"`
	CancelledAt        *string  `json:"cancelledAt,omitempty"` // ISO 8601 format
	SeatedAt           *string  `json:"seatedAt,omitempty"`
	CompletedAt        *string  `json:"completedAt,omitempty"`
	NoShowAt           *string  `json:"noShowAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком броней
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Total        int64                 `json:"total"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:               r.ID,
		ConfirmationCode: r.ConfirmationCode,
		UserID:           r.UserID,
		RestaurantID:     r.RestaurantID,
		TableID:          r.TableID,
		Date:             r.Date.Format(domain.DateFormat),
		StartTime:        r.StartTime.String(),
		DurationMinutes:  r.DurationMinutes,
		PartySize:        r.PartySize,
		Status:           string(r.Status),
		DepositAmount:    r.DepositAmount,
		GuestName:        r.GuestName,
		GuestPhone:       r.GuestPhone,
		Notes:            r.Notes,

		CancellationReason: r.CancellationReason,
		CancellationFee:    r.CancellationFee,

		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	resp.CancelledAt = formatTimePtr(r.CancelledAt)
	resp.SeatedAt = formatTimePtr(r.SeatedAt)
	resp.CompletedAt = formatTimePtr(r.CompletedAt)
	resp.NoShowAt = formatTimePtr(r.NoShowAt)

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation, total int64) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
		Total:        total,
	}

	for _, r := range reservations {
		if converted := FromDomainReservation(r); converted != nil {
			resp.Reservations = append(resp.Reservations, *converted)
		}
	}

	return resp
}

// ToDomainReservationStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)

	validStatuses := []domain.ReservationStatus{
		domain.StatusConfirmed,
		domain.StatusSeated,
		domain.StatusCompleted,
		domain.StatusCancelled,
		domain.StatusNoShow,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
