package models

import (
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

// Request модели

// UpdatePolicyRequest запрос на обновление политики бронирования ресторана
// Все поля опциональны - обновляются только переданные значения
type UpdatePolicyRequest struct {
	UserID                  int64    `json:"userId"`
	MinPartySize            *int     `json:"minPartySize,omitempty"`
	MaxPartySize            *int     `json:"maxPartySize,omitempty"`
	ReservationDurationMin  *int     `json:"reservationDurationMinutes,omitempty"`
	AdvanceBookingDays      *int     `json:"advanceBookingDays,omitempty"` // 0 = без ограничений
	ModificationDeadlineHrs *int     `json:"modificationDeadlineHours,omitempty"`
	CancellationDeadlineHrs *int     `json:"cancellationDeadlineHours,omitempty"`
	CancellationFeeFlat     *float64 `json:"cancellationFeeFlat,omitempty"`
	CancellationFeePerGuest *float64 `json:"cancellationFeePerGuest,omitempty"`
	DepositPartySize        *int     `json:"depositPartySize,omitempty"` // 0 = депозиты выключены
	DepositPerGuest         *float64 `json:"depositPerGuest,omitempty"`
	ReminderLeadMinutes     *int     `json:"reminderLeadMinutes,omitempty"`
}

// ApplyTo накладывает переданные значения на существующую политику
func (r *UpdatePolicyRequest) ApplyTo(p *domain.ReservationPolicy) {
	if r.MinPartySize != nil {
		p.MinPartySize = *r.MinPartySize
	}
	if r.MaxPartySize != nil {
		p.MaxPartySize = *r.MaxPartySize
	}
	if r.ReservationDurationMin != nil {
		p.ReservationDurationMin = *r.ReservationDurationMin
	}
	if r.AdvanceBookingDays != nil {
		p.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.ModificationDeadlineHrs != nil {
		p.ModificationDeadlineHrs = *r.ModificationDeadlineHrs
	}
	if r.CancellationDeadlineHrs != nil {
		p.CancellationDeadlineHrs = *r.CancellationDeadlineHrs
	}
	if r.CancellationFeeFlat != nil {
		p.CancellationFeeFlat = *r.CancellationFeeFlat
	}
	if r.CancellationFeePerGuest != nil {
		p.CancellationFeePerGuest = *r.CancellationFeePerGuest
	}
	if r.DepositPartySize != nil {
		p.DepositPartySize = *r.DepositPartySize
	}
	if r.DepositPerGuest != nil {
		p.DepositPerGuest = *r.DepositPerGuest
	}
	if r.ReminderLeadMinutes != nil {
		p.ReminderLeadMinutes = *r.ReminderLeadMinutes
	}
}

// Response модели

// PolicyResponse ответ с политикой бронирования ресторана
type PolicyResponse struct {
	RestaurantID            int64   `json:"restaurantId"`
	MinPartySize            int     `json:"minPartySize"`
	MaxPartySize            int     `json:"maxPartySize"`
	ReservationDurationMin  int     `json:"reservationDurationMinutes"`
	AdvanceBookingDays      int     `json:"advanceBookingDays"`
	ModificationDeadlineHrs int     `json:"modificationDeadlineHours"`
	CancellationDeadlineHrs int     `json:"cancellationDeadlineHours"`
	CancellationFeeFlat     float64 `json:"cancellationFeeFlat"`
	CancellationFeePerGuest float64 `json:"cancellationFeePerGuest"`
	DepositPartySize        int     `json:"depositPartySize"`
	DepositPerGuest         float64 `json:"depositPerGuest"`
	ReminderLeadMinutes     int     `json:"reminderLeadMinutes"`

	// IsDefault true, когда ресторан не настраивал свою политику
	IsDefault bool `json:"isDefault"`

	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.ReservationPolicy, isDefault bool) *PolicyResponse {
	if p == nil {
		return nil
	}

	resp := &PolicyResponse{
		RestaurantID:            p.RestaurantID,
		MinPartySize:            p.MinPartySize,
		MaxPartySize:            p.MaxPartySize,
		ReservationDurationMin:  p.ReservationDurationMin,
		AdvanceBookingDays:      p.AdvanceBookingDays,
		ModificationDeadlineHrs: p.ModificationDeadlineHrs,
		CancellationDeadlineHrs: p.CancellationDeadlineHrs,
		CancellationFeeFlat:     p.CancellationFeeFlat,
		CancellationFeePerGuest: p.CancellationFeePerGuest,
		DepositPartySize:        p.DepositPartySize,
		DepositPerGuest:         p.DepositPerGuest,
		ReminderLeadMinutes:     p.ReminderLeadMinutes,
		IsDefault:               isDefault,
	}

	if !isDefault {
		createdAt := p.CreatedAt
		updatedAt := p.UpdatedAt
		resp.CreatedAt = &createdAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}
