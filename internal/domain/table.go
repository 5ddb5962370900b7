package domain

import "time"

// Table is a unit of restaurant seating inventory. Tables are immutable from
// the engine's point of view apart from the last_assigned_at bookkeeping used
// for allocation tie-breaks.
type Table struct {
	ID           int64
	RestaurantID int64
	Label        string
	Capacity     int
	// MinPartySize is the practical minimum for the table: a party smaller
	// than this would waste the table (no party of 1 at a 10-top).
	MinPartySize   int
	IsActive       bool
	LastAssignedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Fits returns true if the table can physically host a party of the given size
func (t *Table) Fits(partySize int) bool {
	return t.IsActive && partySize <= t.Capacity && partySize >= t.MinPartySize
}
