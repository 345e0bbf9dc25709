package reservation

import (
	"context"
	"errors"
	"time"

	"fitbook/internal/cache"
	"fitbook/internal/clock"
	"fitbook/internal/logger"
	"fitbook/internal/metrics"
	"fitbook/internal/timeslot"
)

// storageRetries bounds retries of transient persistence failures. The atomic
// insert leaves no partial writes, so retrying it is safe.
const storageRetries = 2

type Service interface {
	CreateReservation(ctx context.Context, memberID int, req CreateReservationRequest) (*Summary, error)
	CancelReservation(ctx context.Context, memberID, reservationID int, admin bool) error
	GetReservation(ctx context.Context, id int) (*Summary, error)
	ListMemberReservations(ctx context.Context, memberID int) ([]Summary, error)
	ListFutureReservations(ctx context.Context, equipmentID int) ([]Summary, error)
}

type service struct {
	repo      Repository
	validator *Validator
	equipment EquipmentCatalog
	slots     timeslot.Repository
	avail     *cache.AvailabilityCache
	clock     clock.Clock
}

func NewService(
	repo Repository,
	validator *Validator,
	equipment EquipmentCatalog,
	slots timeslot.Repository,
	avail *cache.AvailabilityCache,
	clk clock.Clock,
) Service {
	return &service{
		repo:      repo,
		validator: validator,
		equipment: equipment,
		slots:     slots,
		avail:     avail,
		clock:     clk,
	}
}

func (s *service) CreateReservation(ctx context.Context, memberID int, req CreateReservationRequest) (*Summary, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, reject(CodeInvalidReference, "invalid date %q, use YYYY-MM-DD", req.Date)
	}

	cand := Candidate{
		MemberID:    memberID,
		EquipmentID: req.EquipmentID,
		Date:        date,
		SlotIDs:     append([]int(nil), req.SlotIDs...),
	}

	if req.IncludeNextSlot {
		if err := s.expandNextSlot(ctx, &cand); err != nil {
			return nil, s.rejected(err)
		}
	}

	if err := s.validator.Validate(ctx, cand); err != nil {
		return nil, s.rejected(err)
	}

	res, err := s.addWithRetry(ctx, cand)
	if err != nil {
		return nil, s.rejected(err)
	}

	s.invalidate(ctx, res)
	metrics.RecordReservationCreated()
	logger.Info("reservation created",
		"reservation_id", res.ID,
		"member_id", res.MemberID,
		"equipment_id", res.EquipmentID,
		"slots", len(res.SlotIDs),
	)

	return s.summarize(ctx, res)
}

// addWithRetry drives the commit path: one automatic revalidate-and-retry on a
// lost race, bounded retries of transient storage failures, and a typed
// rejection in every other case. Multi-slot candidates commit all slots or none.
func (s *service) addWithRetry(ctx context.Context, cand Candidate) (*Reservation, error) {
	retriedConflict := false
	attempts := 0

	for {
		res, err := s.repo.AddAtomic(ctx, cand)
		if err == nil {
			return res, nil
		}

		switch {
		case errors.Is(err, ErrConflict):
			if retriedConflict {
				return nil, reject(CodeConflict, "reservation lost a concurrent booking race")
			}
			retriedConflict = true
			metrics.RecordConflictRetry()
			logger.Debug("booking race lost, revalidating", "member_id", cand.MemberID)

			// Fresh-state revalidation: the usual outcome is that the winner's
			// claim now shows up as an availability rejection.
			if verr := s.validator.Validate(ctx, cand); verr != nil {
				return nil, verr
			}

		case errors.Is(err, ErrDailyCapExceeded):
			return nil, reject(CodeDailyLimitExceeded, "daily limit of %d slots reached", MaxDailySlotUnits)

		default:
			attempts++
			if attempts > storageRetries {
				return nil, err
			}
			logger.Error("reservation insert failed, retrying", "attempt", attempts, "error", err)
		}
	}
}

func (s *service) expandNextSlot(ctx context.Context, cand *Candidate) error {
	if len(cand.SlotIDs) != 1 {
		return reject(CodeInvalidReference, "include_next_slot requires exactly one requested slot")
	}

	slot, err := s.slots.GetByID(ctx, cand.SlotIDs[0])
	if err != nil {
		if errors.Is(err, timeslot.ErrSlotNotFound) {
			return rejectSlot(CodeInvalidReference, cand.SlotIDs[0], "time slot %d does not exist", cand.SlotIDs[0])
		}
		return err
	}

	next, err := s.slots.GetNextConsecutive(ctx, *slot)
	if err != nil {
		if errors.Is(err, timeslot.ErrSlotNotFound) {
			return rejectSlot(CodeInvalidReference, slot.ID, "no consecutive slot follows time slot %d", slot.ID)
		}
		return err
	}

	cand.SlotIDs = append(cand.SlotIDs, next.ID)
	return nil
}

func (s *service) CancelReservation(ctx context.Context, memberID, reservationID int, admin bool) error {
	res, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}

	if !admin && res.MemberID != memberID {
		return ErrNotOwner
	}

	deleted, err := s.repo.DeleteByID(ctx, reservationID)
	if err != nil {
		return err
	}

	s.invalidate(ctx, deleted)
	metrics.RecordCancellation()
	logger.Info("reservation cancelled", "reservation_id", reservationID, "member_id", res.MemberID)

	return nil
}

func (s *service) GetReservation(ctx context.Context, id int) (*Summary, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, res)
}

func (s *service) ListMemberReservations(ctx context.Context, memberID int) ([]Summary, error) {
	list, err := s.repo.GetByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return s.summarizeAll(ctx, list)
}

func (s *service) ListFutureReservations(ctx context.Context, equipmentID int) ([]Summary, error) {
	today := dateOnly(s.clock.Now())
	list, err := s.repo.GetFutureByEquipment(ctx, equipmentID, today)
	if err != nil {
		return nil, err
	}
	return s.summarizeAll(ctx, list)
}

func (s *service) invalidate(ctx context.Context, res *Reservation) {
	if s.avail != nil {
		s.avail.Invalidate(ctx, res.EquipmentID, res.Date, res.SlotIDs)
	}
}

// rejected tags validation failures with their reason metric; storage errors
// pass through untouched.
func (s *service) rejected(err error) error {
	if r, ok := AsRejection(err); ok {
		metrics.RecordReservationRejected(r.Code)
	}
	return err
}

func (s *service) summarize(ctx context.Context, res *Reservation) (*Summary, error) {
	label, err := s.equipment.Label(ctx, res.EquipmentID)
	if err != nil {
		label = "Unknown Equipment"
	}

	slotLabels := make([]string, 0, len(res.SlotIDs))
	for _, slotID := range res.SlotIDs {
		slot, err := s.slots.GetByID(ctx, slotID)
		if err != nil {
			slotLabels = append(slotLabels, "Unknown Time Slot")
			continue
		}
		slotLabels = append(slotLabels, slot.Label())
	}

	return &Summary{
		ReservationID: res.ID,
		Date:          dateOnly(res.Date).Format("2006-01-02"),
		Equipment:     label,
		TimeSlots:     slotLabels,
	}, nil
}

func (s *service) summarizeAll(ctx context.Context, list []Reservation) ([]Summary, error) {
	summaries := make([]Summary, 0, len(list))
	for i := range list {
		sum, err := s.summarize(ctx, &list[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *sum)
	}
	return summaries, nil
}
