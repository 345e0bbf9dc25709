package reservation

import "time"

const (
	// MaxDailySlotUnits caps a member's slot-units per calendar day.
	MaxDailySlotUnits = 4

	// MaxConsecutiveSlots caps a member's contiguous adjacent slots per day.
	MaxConsecutiveSlots = 2

	// BookingWindowDays is how far ahead (inclusive) a reservation may be made.
	BookingWindowDays = 7
)

// Reservation is a member's claim on one piece of equipment for one or two
// contiguous time slots on a calendar day. Immutable after creation; the only
// mutation is full deletion.
type Reservation struct {
	ID          int       `db:"id" json:"id"`
	MemberID    int       `db:"member_id" json:"member_id"`
	EquipmentID int       `db:"equipment_id" json:"equipment_id"`
	Date        time.Time `db:"date" json:"date"`
	SlotIDs     []int     `db:"-" json:"slot_ids"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Candidate is a validated-later booking request as the orchestrator sees it.
type Candidate struct {
	MemberID    int
	EquipmentID int
	Date        time.Time
	SlotIDs     []int
}

type CreateReservationRequest struct {
	EquipmentID     int    `json:"equipment_id" binding:"required"`
	Date            string `json:"date" binding:"required" example:"2026-09-03"`
	SlotIDs         []int  `json:"slot_ids" binding:"required,min=1,max=2"`
	IncludeNextSlot bool   `json:"include_next_slot"`
}

// Summary is the outward read shape: labels instead of ids.
type Summary struct {
	ReservationID int      `json:"reservation_id"`
	Date          string   `json:"date"`
	Equipment     string   `json:"equipment"`
	TimeSlots     []string `json:"time_slots"`
}

// dateOnly reduces t to its calendar day as a UTC midnight. Request dates are
// parsed in UTC while the clock reports server-local time; normalizing both
// sides to the same zone makes day comparisons independent of the offset.
func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
