package domain

import "time"

// Slot is a bookable unit of time, identified by (Day, Label). Slots are
// provisioned out-of-band; the engines only read them and bump occupancy.
type Slot struct {
	Day       Day
	Label     string
	Occupancy int
	Capacity  int
}

func (s Slot) Remaining() int {
	return s.Capacity - s.Occupancy
}

// Contact carries the visitor fields collected by the form shell.
type Contact struct {
	Name    string
	Address string
	Email   string
	Phone   string
}

// Reservation is one confirmed booking against a slot. Append-only: written
// once at submission time, never read back.
type Reservation struct {
	ID        string
	Day       Day
	Label     string
	PartySize int
	Contact   Contact
	Note      string
	CreatedAt time.Time
}

// PickupOrder is one confirmed takeaway order against a pickup slot.
type PickupOrder struct {
	ID        string
	Day       Day
	Label     string
	Contact   Contact
	Items     map[string]int
	Note      string
	CreatedAt time.Time
}

// ReserveResult reports the outcome of a reservation attempt. A full slot is
// the common case, so rejection is a value here rather than an error.
type ReserveResult struct {
	Confirmed bool

	// Remaining is the slot's spare capacity after a confirmed reservation.
	Remaining int

	// Available is the slot's spare capacity when the attempt was rejected.
	Available int

	Reservation Reservation
}
