package domain

import "time"

// ReservationPolicy holds the per-restaurant booking rules. One row per
// restaurant; defaults apply when a restaurant has not configured its own.
type ReservationPolicy struct {
	ID           int64
	RestaurantID int64

	MinPartySize            int
	MaxPartySize            int
	ReservationDurationMin  int
	AdvanceBookingDays      int // 0 = unlimited
	ModificationDeadlineHrs int
	CancellationDeadlineHrs int

	// Cancellation fee inside the deadline: flat part plus per-guest part
	CancellationFeeFlat     float64
	CancellationFeePerGuest float64

	// Parties of DepositPartySize or more require a deposit of
	// DepositPerGuest * partySize. 0 disables deposits.
	DepositPartySize int
	DepositPerGuest  float64

	ReminderLeadMinutes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasAdvanceBookingLimit returns true if there is a limit on how far in
// advance reservations can be made
func (p *ReservationPolicy) HasAdvanceBookingLimit() bool {
	return p.AdvanceBookingDays > 0
}

// RequiresDeposit returns true if a party of the given size must leave a deposit
func (p *ReservationPolicy) RequiresDeposit(partySize int) bool {
	return p.DepositPartySize > 0 && partySize >= p.DepositPartySize
}

// DepositAmount computes the deposit for a party of the given size
func (p *ReservationPolicy) DepositAmount(partySize int) float64 {
	if !p.RequiresDeposit(partySize) {
		return 0
	}
	return p.DepositPerGuest * float64(partySize)
}

// LateCancellationFee computes the fee charged when a reservation is
// cancelled inside the cancellation deadline
func (p *ReservationPolicy) LateCancellationFee(partySize int) float64 {
	return p.CancellationFeeFlat + p.CancellationFeePerGuest*float64(partySize)
}

// DefaultPolicy returns the policy applied to restaurants that have not
// configured their own
func DefaultPolicy(restaurantID int64) *ReservationPolicy {
	return &ReservationPolicy{
		RestaurantID:            restaurantID,
		MinPartySize:            DefaultMinPartySize,
		MaxPartySize:            DefaultMaxPartySize,
		ReservationDurationMin:  DefaultReservationDurationMin,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		ModificationDeadlineHrs: DefaultModificationDeadlineHrs,
		CancellationDeadlineHrs: DefaultCancellationDeadlineHrs,
		ReminderLeadMinutes:     DefaultReminderLeadMinutes,
	}
}
