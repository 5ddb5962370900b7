package domain

import (
	"time"

	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	// StatusPending is transient: creation either commits straight into
	// StatusConfirmed or fails. It is never persisted.
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusSeated    ReservationStatus = "seated"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusNoShow    ReservationStatus = "no_show"
)

// allowedTransitions is the reservation state machine. Terminal states
// (completed, cancelled, no_show) have no outgoing transitions.
var allowedTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed},
	StatusConfirmed: {StatusSeated, StatusCancelled, StatusNoShow},
	StatusSeated:    {StatusCompleted},
}

// CanTransitionTo returns true if the state machine allows moving from the
// current status to target
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the status has no outgoing transitions
func (s ReservationStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Reservation represents a confirmed hold of one table for one time window
type Reservation struct {
	ID           int64
	UserID       int64
	RestaurantID int64
	TableID      *int64 // nil until allocation succeeds
	Date         time.Time
	StartTime    types.TimeString
	// DurationMinutes is copied from the restaurant policy at creation time
	// and never changes afterwards, even if the policy does.
	DurationMinutes int
	PartySize       int
	Status          ReservationStatus

	// ConfirmationCode is short and human readable, unique per restaurant
	ConfirmationCode string

	DepositAmount float64

	GuestName  string
	GuestPhone *string
	Notes      *string

	CancellationReason *string
	CancellationFee    float64
	CancelledAt        *time.Time
	SeatedAt           *time.Time
	CompletedAt        *time.Time
	NoShowAt           *time.Time
	ReminderSentAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation still holds its table
// (counts against availability)
func (r *Reservation) IsActive() bool {
	return r.Status == StatusConfirmed || r.Status == StatusSeated
}

// CanBeModified returns true if the reservation is in a state that allows
// changing time, party size or table
func (r *Reservation) CanBeModified() bool {
	return r.Status == StatusConfirmed
}

// CanBeCancelled returns true if the reservation can still be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusConfirmed
}

// StartsAt combines Date and StartTime into a point in time in loc
func (r *Reservation) StartsAt(loc *time.Location) time.Time {
	minutes, err := r.StartTime.Minutes()
	if err != nil {
		minutes = 0
	}
	return time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, loc).
		Add(time.Duration(minutes) * time.Minute)
}

// EndTime returns the end of the reservation window, or an error when the
// window would cross midnight
func (r *Reservation) EndTime() (types.TimeString, error) {
	return r.StartTime.AddMinutes(r.DurationMinutes)
}

// Overlaps reports whether the [start, end) windows of two reservations on
// the same date intersect. Touching boundaries do not count as overlap.
func (r *Reservation) Overlaps(start types.TimeString, durationMinutes int) bool {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}
	ownEnd, err := r.EndTime()
	if err != nil {
		return false
	}
	return r.StartTime.IsBefore(end) && ownEnd.IsAfter(start)
}

// ReservationsFilter is the search filter for restaurant staff listings
type ReservationsFilter struct {
	RestaurantID    int64
	TableID         *int64
	UserID          *int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *ReservationStatus
	IncludeInactive bool // include cancelled / completed / no-show rows
	Limit           uint64
	Offset          uint64
}
