package domain

// Default policy values
const (
	DefaultMinPartySize            = 1
	DefaultMaxPartySize            = 12
	DefaultReservationDurationMin  = 120
	DefaultAdvanceBookingDays      = 30
	DefaultModificationDeadlineHrs = 24
	DefaultCancellationDeadlineHrs = 24
	DefaultReminderLeadMinutes     = 120
)

// Business validation bounds
const (
	MinReservationDurationMin = 15
	MaxReservationDurationMin = 480 // 8 hours
	MinAdvanceBookingDays     = 0
	MaxAdvanceBookingDays     = 365
	MaxDeadlineHours          = 24 * 30
	MaxPartySizeBound         = 100
	MaxNotesLength            = 500
	MaxCancellationReasonLen  = 500
	ConfirmationCodeLength    = 6
)

// Operational constants
const (
	// SeatWindowSlackMinutes: seating more than this far outside the
	// scheduled window is logged as an anomaly, not rejected
	SeatWindowSlackMinutes = 30

	// NoShowFlagThreshold: guests reaching this many no-shows get a standing
	// account-flag event
	NoShowFlagThreshold = 3
)

// Pagination defaults for restaurant reservation listings
const (
	DefaultPageSize uint64 = 50
	MaxPageSize     uint64 = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses no longer hold a table and are excluded from availability
var InactiveStatuses = []ReservationStatus{
	StatusCancelled,
	StatusNoShow,
	StatusCompleted,
}

// ActiveStatuses hold a table and count against availability
var ActiveStatuses = []ReservationStatus{
	StatusConfirmed,
	StatusSeated,
}
