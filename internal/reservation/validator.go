package reservation

import (
	"context"
	"errors"
	"sort"

	"fitbook/internal/clock"
	"fitbook/internal/timeslot"
)

// MemberDirectory is the identity-existence contract the core consumes.
type MemberDirectory interface {
	Exists(ctx context.Context, memberID int) (bool, error)
}

// EquipmentCatalog is the equipment contract the core consumes.
type EquipmentCatalog interface {
	Exists(ctx context.Context, equipmentID int) (bool, error)
	Label(ctx context.Context, equipmentID int) (string, error)
}

// Validator applies all booking rules to a candidate, in order, short-circuiting
// on the first failure. It has no side effects and may be invoked speculatively;
// its reads are snapshots, so the store re-checks the racy invariants at commit.
type Validator struct {
	members   MemberDirectory
	equipment EquipmentCatalog
	slots     timeslot.Repository
	index     AvailabilityIndex
	clock     clock.Clock
}

func NewValidator(
	members MemberDirectory,
	equipment EquipmentCatalog,
	slots timeslot.Repository,
	index AvailabilityIndex,
	clk clock.Clock,
) *Validator {
	return &Validator{
		members:   members,
		equipment: equipment,
		slots:     slots,
		index:     index,
		clock:     clk,
	}
}

// Validate returns nil when the candidate may be booked, a *Rejection when a
// rule refuses it, or a plain error when a backing read fails.
func (v *Validator) Validate(ctx context.Context, cand Candidate) error {
	if err := v.checkReferences(ctx, cand); err != nil {
		return err
	}
	if err := v.checkDateWindow(cand); err != nil {
		return err
	}
	if err := v.checkDailyCap(ctx, cand); err != nil {
		return err
	}
	if err := v.checkConsecutiveRun(ctx, cand); err != nil {
		return err
	}
	return v.checkAvailability(ctx, cand)
}

func (v *Validator) checkReferences(ctx context.Context, cand Candidate) error {
	if n := len(cand.SlotIDs); n < 1 || n > MaxConsecutiveSlots {
		return reject(CodeInvalidReference, "a reservation must request 1 or %d time slots, got %d", MaxConsecutiveSlots, len(cand.SlotIDs))
	}

	ok, err := v.members.Exists(ctx, cand.MemberID)
	if err != nil {
		return err
	}
	if !ok {
		return reject(CodeInvalidReference, "member %d does not exist", cand.MemberID)
	}

	ok, err = v.equipment.Exists(ctx, cand.EquipmentID)
	if err != nil {
		return err
	}
	if !ok {
		return reject(CodeInvalidReference, "equipment %d does not exist", cand.EquipmentID)
	}

	resolved := make([]timeslot.TimeSlot, 0, len(cand.SlotIDs))
	for _, slotID := range cand.SlotIDs {
		slot, err := v.slots.GetByID(ctx, slotID)
		if err != nil {
			if errors.Is(err, timeslot.ErrSlotNotFound) {
				return rejectSlot(CodeInvalidReference, slotID, "time slot %d does not exist", slotID)
			}
			return err
		}
		resolved = append(resolved, *slot)
	}

	if len(resolved) == 2 {
		if resolved[0].ID == resolved[1].ID {
			return rejectSlot(CodeInvalidReference, resolved[0].ID, "time slot %d requested twice", resolved[0].ID)
		}
		first, second := resolved[0], resolved[1]
		if first.StartTime > second.StartTime {
			first, second = second, first
		}
		if !first.Adjacent(second) {
			return reject(CodeInvalidReference, "time slots %d and %d are not adjacent", resolved[0].ID, resolved[1].ID)
		}
	}

	return nil
}

func (v *Validator) checkDateWindow(cand Candidate) error {
	today := dateOnly(v.clock.Now())
	date := dateOnly(cand.Date)

	if date.Before(today) {
		return reject(CodeDateOutOfRange, "date %s is in the past", date.Format("2006-01-02"))
	}
	if date.After(today.AddDate(0, 0, BookingWindowDays)) {
		return reject(CodeDateOutOfRange, "date %s is more than %d days ahead", date.Format("2006-01-02"), BookingWindowDays)
	}

	return nil
}

func (v *Validator) checkDailyCap(ctx context.Context, cand Candidate) error {
	units, err := v.index.DailyReservationCount(ctx, cand.MemberID, cand.Date)
	if err != nil {
		return err
	}

	if units+len(cand.SlotIDs) > MaxDailySlotUnits {
		return reject(CodeDailyLimitExceeded, "daily limit of %d slots reached (%d booked, %d requested)",
			MaxDailySlotUnits, units, len(cand.SlotIDs))
	}

	return nil
}

// checkConsecutiveRun rejects a request that would give the member a run of 3
// or more slots with consecutive ids on one day. Slot-id adjacency stands in
// for time adjacency; the seeded catalog allocates ids in ascending time order.
func (v *Validator) checkConsecutiveRun(ctx context.Context, cand Candidate) error {
	existing, err := v.index.SameDaySlots(ctx, cand.MemberID, cand.Date)
	if err != nil {
		return err
	}

	merged := make(map[int]bool, len(existing)+len(cand.SlotIDs))
	for _, id := range existing {
		merged[id] = true
	}
	requested := make(map[int]bool, len(cand.SlotIDs))
	for _, id := range cand.SlotIDs {
		merged[id] = true
		requested[id] = true
	}

	ids := make([]int, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	runStart := 0
	for i := 1; i <= len(ids); i++ {
		if i < len(ids) && ids[i] == ids[i-1]+1 {
			continue
		}
		if runLen := i - runStart; runLen > MaxConsecutiveSlots {
			for j := runStart; j < i; j++ {
				if requested[ids[j]] {
					return rejectSlot(CodeConsecutiveLimitExceeded, ids[j],
						"cannot reserve more than %d consecutive time slots", MaxConsecutiveSlots)
				}
			}
		}
		runStart = i
	}

	return nil
}

func (v *Validator) checkAvailability(ctx context.Context, cand Candidate) error {
	for _, slotID := range cand.SlotIDs {
		free, err := v.index.IsAvailable(ctx, cand.EquipmentID, slotID, cand.Date)
		if err != nil {
			return err
		}
		if !free {
			return rejectSlot(CodeEquipmentUnavailable, slotID,
				"equipment %d is not available for time slot %d on %s",
				cand.EquipmentID, slotID, dateOnly(cand.Date).Format("2006-01-02"))
		}
	}

	return nil
}
