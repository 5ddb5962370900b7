package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/RST-ReservationService/pkg/types"
)

func TestReservationStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusSeated))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusNoShow))
	assert.True(t, StatusSeated.CanTransitionTo(StatusCompleted))

	assert.False(t, StatusConfirmed.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusSeated.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusSeated.CanTransitionTo(StatusNoShow))

	// Terminal states have no outgoing transitions
	for _, terminal := range []ReservationStatus{StatusCompleted, StatusCancelled, StatusNoShow} {
		for _, target := range []ReservationStatus{StatusPending, StatusConfirmed, StatusSeated, StatusCompleted, StatusCancelled, StatusNoShow} {
			assert.False(t, terminal.CanTransitionTo(target), "%s -> %s must be rejected", terminal, target)
		}
	}
}

func TestReservationStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())

	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusSeated.IsTerminal())
}

func TestReservation_Overlaps(t *testing.T) {
	res := &Reservation{
		StartTime:       types.TimeString("18:00"),
		DurationMinutes: 120, // [18:00, 20:00)
	}

	assert.True(t, res.Overlaps(types.TimeString("19:00"), 120))
	assert.True(t, res.Overlaps(types.TimeString("17:00"), 90))
	assert.True(t, res.Overlaps(types.TimeString("18:00"), 120))
	assert.True(t, res.Overlaps(types.TimeString("19:59"), 60))

	// Touching boundaries do not overlap
	assert.False(t, res.Overlaps(types.TimeString("20:00"), 120))
	assert.False(t, res.Overlaps(types.TimeString("16:00"), 120))
	assert.False(t, res.Overlaps(types.TimeString("21:00"), 60))
}

func TestReservation_StartsAt(t *testing.T) {
	res := &Reservation{
		Date:      time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		StartTime: types.TimeString("19:30"),
	}

	startsAt := res.StartsAt(time.UTC)
	assert.Equal(t, time.Date(2026, 9, 15, 19, 30, 0, 0, time.UTC), startsAt)
}

func TestReservation_LifecyclePredicates(t *testing.T) {
	confirmed := &Reservation{Status: StatusConfirmed}
	assert.True(t, confirmed.IsActive())
	assert.True(t, confirmed.CanBeModified())
	assert.True(t, confirmed.CanBeCancelled())

	seated := &Reservation{Status: StatusSeated}
	assert.True(t, seated.IsActive())
	assert.False(t, seated.CanBeModified())
	assert.False(t, seated.CanBeCancelled())

	cancelled := &Reservation{Status: StatusCancelled}
	assert.False(t, cancelled.IsActive())
	assert.False(t, cancelled.CanBeModified())
	assert.False(t, cancelled.CanBeCancelled())
}

func TestTable_Fits(t *testing.T) {
	table := &Table{Capacity: 6, MinPartySize: 2, IsActive: true}

	assert.True(t, table.Fits(2))
	assert.True(t, table.Fits(6))
	assert.False(t, table.Fits(1))
	assert.False(t, table.Fits(7))

	inactive := &Table{Capacity: 6, MinPartySize: 2, IsActive: false}
	assert.False(t, inactive.Fits(4))
}

func TestReservationPolicy_Deposit(t *testing.T) {
	pol := &ReservationPolicy{DepositPartySize: 8, DepositPerGuest: 10}

	assert.False(t, pol.RequiresDeposit(7))
	assert.True(t, pol.RequiresDeposit(8))
	assert.Equal(t, 0.0, pol.DepositAmount(7))
	assert.Equal(t, 100.0, pol.DepositAmount(10))

	// DepositPartySize = 0 disables deposits entirely
	disabled := &ReservationPolicy{DepositPartySize: 0, DepositPerGuest: 10}
	assert.False(t, disabled.RequiresDeposit(20))
	assert.Equal(t, 0.0, disabled.DepositAmount(20))
}

func TestReservationPolicy_LateCancellationFee(t *testing.T) {
	pol := &ReservationPolicy{CancellationFeeFlat: 15, CancellationFeePerGuest: 5}
	assert.Equal(t, 35.0, pol.LateCancellationFee(4))
}

func TestDefaultPolicy(t *testing.T) {
	pol := DefaultPolicy(42)
	assert.Equal(t, int64(42), pol.RestaurantID)
	assert.Equal(t, DefaultMinPartySize, pol.MinPartySize)
	assert.Equal(t, DefaultMaxPartySize, pol.MaxPartySize)
	assert.Equal(t, DefaultReservationDurationMin, pol.ReservationDurationMin)
	assert.True(t, pol.HasAdvanceBookingLimit())
}
