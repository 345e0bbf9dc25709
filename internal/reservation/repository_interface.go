package reservation

import (
	"context"
	"time"
)

// AvailabilityIndex answers read-only conflict questions against stored
// reservations. The answers are snapshots; the store's atomic insert is the
// authority under concurrency.
type AvailabilityIndex interface {
	IsAvailable(ctx context.Context, equipmentID, slotID int, date time.Time) (bool, error)
	DailyReservationCount(ctx context.Context, memberID int, date time.Time) (int, error)
	SameDaySlots(ctx context.Context, memberID int, date time.Time) ([]int, error)
}

type Repository interface {
	AvailabilityIndex

	// AddAtomic persists the candidate only if, at commit time, none of its
	// (equipment, date, slot) tuples are claimed and the member's daily cap
	// still holds. Returns ErrConflict on a lost race, ErrDailyCapExceeded
	// when the in-transaction cap re-check fails.
	AddAtomic(ctx context.Context, cand Candidate) (*Reservation, error)

	GetByID(ctx context.Context, id int) (*Reservation, error)
	GetByMember(ctx context.Context, memberID int) ([]Reservation, error)
	GetFutureByEquipment(ctx context.Context, equipmentID int, from time.Time) ([]Reservation, error)

	// DeleteByID removes the reservation and all its slot claims in one
	// transaction, returning the deleted row. ErrReservationNotFound if absent.
	DeleteByID(ctx context.Context, id int) (*Reservation, error)
}
