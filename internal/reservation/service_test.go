package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitbook/internal/clock"
	"fitbook/internal/logger"
	"fitbook/internal/timeslot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

type MockReservationRepo struct{ mock.Mock }

func (m *MockReservationRepo) IsAvailable(ctx context.Context, equipmentID, slotID int, date time.Time) (bool, error) {
	args := m.Called(ctx, equipmentID, slotID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepo) DailyReservationCount(ctx context.Context, memberID int, date time.Time) (int, error) {
	args := m.Called(ctx, memberID, date)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepo) SameDaySlots(ctx context.Context, memberID int, date time.Time) ([]int, error) {
	args := m.Called(ctx, memberID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockReservationRepo) AddAtomic(ctx context.Context, cand Candidate) (*Reservation, error) {
	args := m.Called(ctx, cand)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reservation), args.Error(1)
}

func (m *MockReservationRepo) GetByID(ctx context.Context, id int) (*Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reservation), args.Error(1)
}

func (m *MockReservationRepo) GetByMember(ctx context.Context, memberID int) ([]Reservation, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Reservation), args.Error(1)
}

func (m *MockReservationRepo) GetFutureByEquipment(ctx context.Context, equipmentID int, from time.Time) ([]Reservation, error) {
	args := m.Called(ctx, equipmentID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Reservation), args.Error(1)
}

func (m *MockReservationRepo) DeleteByID(ctx context.Context, id int) (*Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reservation), args.Error(1)
}

type serviceFixture struct {
	repo      *MockReservationRepo
	members   *MockMemberDirectory
	equipment *MockEquipmentCatalog
	slots     *MockSlotRepo
	svc       Service
}

func newServiceFixture(now time.Time) *serviceFixture {
	f := &serviceFixture{
		repo:      new(MockReservationRepo),
		members:   new(MockMemberDirectory),
		equipment: new(MockEquipmentCatalog),
		slots:     new(MockSlotRepo),
	}
	clk := clock.NewFixed(now)
	validator := NewValidator(f.members, f.equipment, f.slots, f.repo, clk)
	f.svc = NewService(f.repo, validator, f.equipment, f.slots, nil, clk)
	return f
}

func (f *serviceFixture) allowBooking(memberID, equipmentID int, slotIDs ...int) {
	f.members.On("Exists", mock.Anything, memberID).Return(true, nil)
	f.equipment.On("Exists", mock.Anything, equipmentID).Return(true, nil)
	for _, id := range slotIDs {
		f.slots.On("GetByID", mock.Anything, id).Return(catalogSlot(id), nil)
	}
	f.repo.On("DailyReservationCount", mock.Anything, memberID, mock.Anything).Return(0, nil)
	f.repo.On("SameDaySlots", mock.Anything, memberID, mock.Anything).Return([]int{}, nil)
	for _, id := range slotIDs {
		f.repo.On("IsAvailable", mock.Anything, equipmentID, id, mock.Anything).Return(true, nil)
	}
}

func TestService_CreateReservation(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	date := now.AddDate(0, 0, 2)

	t.Run("successful booking", func(t *testing.T) {
		f := newServiceFixture(now)
		f.allowBooking(1, 2, 3)

		f.repo.On("AddAtomic", mock.Anything, mock.Anything).Return(&Reservation{
			ID: 10, MemberID: 1, EquipmentID: 2, Date: date, SlotIDs: []int{3},
		}, nil)
		f.equipment.On("Label", mock.Anything, 2).Return("Treadmill #2", nil)

		sum, err := f.svc.CreateReservation(context.Background(), 1, CreateReservationRequest{
			EquipmentID: 2,
			Date:        date.Format("2006-01-02"),
			SlotIDs:     []int{3},
		})

		require.NoError(t, err)
		assert.Equal(t, 10, sum.ReservationID)
		assert.Equal(t, "Treadmill #2", sum.Equipment)
		assert.Equal(t, []string{"10:00–11:00 (morning)"}, sum.TimeSlots)
	})

	t.Run("malformed date", func(t *testing.T) {
		f := newServiceFixture(now)

		_, err := f.svc.CreateReservation(context.Background(), 1, CreateReservationRequest{
			EquipmentID: 2,
			Date:        "03-09-2026",
			SlotIDs:     []int{3},
		})

		r, ok := AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, CodeInvalidReference, r.Code)
	})

	t.Run("lost race surfaces availability rejection after revalidation", func(t *testing.T) {
		f := newServiceFixture(now)
		f.members.On("Exists", mock.Anything, 1).Return(true, nil)
		f.equipment.On("Exists", mock.Anything, 2).Return(true, nil)
		f.slots.On("GetByID", mock.Anything, 3).Return(catalogSlot(3), nil)
		f.repo.On("DailyReservationCount", mock.Anything, 1, mock.Anything).Return(0, nil)
		f.repo.On("SameDaySlots", mock.Anything, 1, mock.Anything).Return([]int{}, nil)

		// First validation sees the slot free; after the lost race the winner's
		// claim shows up.
		f.repo.On("IsAvailable", mock.Anything, 2, 3, mock.Anything).Return(true, nil).Once()
		f.repo.On("AddAtomic", mock.Anything, mock.Anything).Return(nil, ErrConflict).Once()
		f.repo.On("IsAvailable", mock.Anything, 2, 3, mock.Anything).Return(false, nil).Once()

		_, err := f.svc.CreateReservation(context.Background(), 1, CreateReservationRequest{
			EquipmentID: 2,
			Date:        date.Format("2006-01-02"),
			SlotIDs:     []int{3},
		})

		r, ok := AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, CodeEquipmentUnavailable, r.Code)
		f.repo.AssertExpectations(t)
	})

	t.Run("repeated conflict rejects without looping", func(t *testing.T) {
		f := newServiceFixture(now)
		f.allowBooking(1, 2, 3)
		f.repo.On("AddAtomic", mock.Anything, mock.Anything).Return(nil, ErrConflict).Twice()

		_, err := f.svc.CreateReservation(context.Background(), 1, CreateReservationRequest{
			EquipmentID: 2,
			Date:        date.Format("2006-01-02"),
			SlotIDs:     []int{3},
		})

		r, ok := AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, CodeConflict, r.Code)
		f.repo.AssertNumberOfCalls(t, "AddAtomic", 2)
	})

	t.Run("store-level cap refusal becomes a daily limit rejection", func(t *testing.T) {
		f := newServiceFixture(now)
		f.allowBooking(1, 2, 3)
		f.repo.On("AddAtomic", mock.Anything, mock.Anything).Return(nil, ErrDailyCapExceeded)

		_, err := f.svc.CreateReservation(context.Background(), 1, CreateReservationRequest{
			EquipmentID: 2,
			Date:        date.Format("2006-01-02"),
			SlotIDs:     []int{3},
		})

		r, ok := AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, CodeDailyLimitExceeded, r.Code)
	})

	t.Run("transient storage failure is retried", func(t *testing.T) {
		f := newServiceFixture(now)
		f.allowBooking(1, 2, 3)

		f.repo.On("AddAtomic", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()
		f.repo.On("AddAtomic", mock.Anything, mock.Anything).Return(&Reservation{
			ID: 11, MemberID: 1, EquipmentID: 2, Date: date, SlotIDs: []int{3},
		}, nil).Once()
		f.equipment.On("Label", mock.Anything, 2).Return("Treadmill #2", nil)

		sum, err := f.svc.CreateReservation(context.Background(), 1, CreateReservationRequest{
			EquipmentID: 2,
			Date:        date.Format("2006-01-02"),
			SlotIDs:     []int{3},
		})

		require.NoError(t, err)
		assert.Equal(t, 11, sum.ReservationID)
	})

	t.Run("include next slot expands to the following slot", func(t *testing.T) {
		f := newServiceFixture(now)
		f.allowBooking(1, 2, 3, 4)
		f.slots.On("GetNextConsecutive", mock.Anything, *catalogSlot(3)).Return(catalogSlot(4), nil)

		f.repo.On("AddAtomic", mock.Anything, mock.MatchedBy(func(c Candidate) bool {
			return len(c.SlotIDs) == 2 && c.SlotIDs[0] == 3 && c.SlotIDs[1] == 4
		})).Return(&Reservation{
			ID: 12, MemberID: 1, EquipmentID: 2, Date: date, SlotIDs: []int{3, 4},
		}, nil)
		f.equipment.On("Label", mock.Anything, 2).Return("Rowing Machine", nil)

		sum, err := f.svc.CreateReservation(context.Background(), 1, CreateReservationRequest{
			EquipmentID:     2,
			Date:            date.Format("2006-01-02"),
			SlotIDs:         []int{3},
			IncludeNextSlot: true,
		})

		require.NoError(t, err)
		assert.Len(t, sum.TimeSlots, 2)
	})

	t.Run("include next slot with no following slot", func(t *testing.T) {
		f := newServiceFixture(now)
		last := catalogSlot(14)
		f.slots.On("GetByID", mock.Anything, 14).Return(last, nil)
		f.slots.On("GetNextConsecutive", mock.Anything, *last).Return(nil, timeslot.ErrSlotNotFound)

		_, err := f.svc.CreateReservation(context.Background(), 1, CreateReservationRequest{
			EquipmentID:     2,
			Date:            date.Format("2006-01-02"),
			SlotIDs:         []int{14},
			IncludeNextSlot: true,
		})

		r, ok := AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, CodeInvalidReference, r.Code)
		assert.Equal(t, 14, r.SlotID)
	})

	t.Run("include next slot requires a single requested slot", func(t *testing.T) {
		f := newServiceFixture(now)

		_, err := f.svc.CreateReservation(context.Background(), 1, CreateReservationRequest{
			EquipmentID:     2,
			Date:            date.Format("2006-01-02"),
			SlotIDs:         []int{3, 4},
			IncludeNextSlot: true,
		})

		r, ok := AsRejection(err)
		require.True(t, ok)
		assert.Equal(t, CodeInvalidReference, r.Code)
	})
}

func TestService_CancelReservation(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	stored := &Reservation{ID: 10, MemberID: 1, EquipmentID: 2, Date: now, SlotIDs: []int{3}}

	t.Run("owner cancels", func(t *testing.T) {
		f := newServiceFixture(now)
		f.repo.On("GetByID", mock.Anything, 10).Return(stored, nil)
		f.repo.On("DeleteByID", mock.Anything, 10).Return(stored, nil)

		err := f.svc.CancelReservation(context.Background(), 1, 10, false)
		assert.NoError(t, err)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		f := newServiceFixture(now)
		f.repo.On("GetByID", mock.Anything, 10).Return(stored, nil)

		err := f.svc.CancelReservation(context.Background(), 2, 10, false)
		assert.ErrorIs(t, err, ErrNotOwner)
		f.repo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
	})

	t.Run("admin cancels any reservation", func(t *testing.T) {
		f := newServiceFixture(now)
		f.repo.On("GetByID", mock.Anything, 10).Return(stored, nil)
		f.repo.On("DeleteByID", mock.Anything, 10).Return(stored, nil)

		err := f.svc.CancelReservation(context.Background(), 99, 10, true)
		assert.NoError(t, err)
	})

	t.Run("missing reservation", func(t *testing.T) {
		f := newServiceFixture(now)
		f.repo.On("GetByID", mock.Anything, 10).Return(nil, ErrReservationNotFound)

		err := f.svc.CancelReservation(context.Background(), 1, 10, false)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}

func TestService_ListMemberReservations(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	f := newServiceFixture(now)

	f.repo.On("GetByMember", mock.Anything, 1).Return([]Reservation{
		{ID: 10, MemberID: 1, EquipmentID: 2, Date: now, SlotIDs: []int{3}},
		{ID: 11, MemberID: 1, EquipmentID: 5, Date: now.AddDate(0, 0, 1), SlotIDs: []int{4, 5}},
	}, nil)
	f.equipment.On("Label", mock.Anything, 2).Return("Treadmill #2", nil)
	f.equipment.On("Label", mock.Anything, 5).Return("", errors.New("gone"))
	f.slots.On("GetByID", mock.Anything, 3).Return(catalogSlot(3), nil)
	f.slots.On("GetByID", mock.Anything, 4).Return(catalogSlot(4), nil)
	f.slots.On("GetByID", mock.Anything, 5).Return(catalogSlot(5), nil)

	list, err := f.svc.ListMemberReservations(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Treadmill #2", list[0].Equipment)
	assert.Equal(t, "Unknown Equipment", list[1].Equipment)
	assert.Equal(t, "2026-09-01", list[0].Date)
}
