package reservation

import (
	"context"
	"testing"
	"time"

	"fitbook/internal/clock"
	"fitbook/internal/timeslot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock collaborators
type MockMemberDirectory struct{ mock.Mock }
type MockEquipmentCatalog struct{ mock.Mock }
type MockSlotRepo struct{ mock.Mock }
type MockIndex struct{ mock.Mock }

func (m *MockMemberDirectory) Exists(ctx context.Context, memberID int) (bool, error) {
	args := m.Called(ctx, memberID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEquipmentCatalog) Exists(ctx context.Context, equipmentID int) (bool, error) {
	args := m.Called(ctx, equipmentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEquipmentCatalog) Label(ctx context.Context, equipmentID int) (string, error) {
	args := m.Called(ctx, equipmentID)
	return args.String(0), args.Error(1)
}

func (m *MockSlotRepo) GetAll(ctx context.Context) ([]timeslot.TimeSlot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]timeslot.TimeSlot), args.Error(1)
}

func (m *MockSlotRepo) GetByPartOfDay(ctx context.Context, partOfDay string) ([]timeslot.TimeSlot, error) {
	args := m.Called(ctx, partOfDay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]timeslot.TimeSlot), args.Error(1)
}

func (m *MockSlotRepo) GetByID(ctx context.Context, id int) (*timeslot.TimeSlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*timeslot.TimeSlot), args.Error(1)
}

func (m *MockSlotRepo) GetNextConsecutive(ctx context.Context, slot timeslot.TimeSlot) (*timeslot.TimeSlot, error) {
	args := m.Called(ctx, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*timeslot.TimeSlot), args.Error(1)
}

func (m *MockIndex) IsAvailable(ctx context.Context, equipmentID, slotID int, date time.Time) (bool, error) {
	args := m.Called(ctx, equipmentID, slotID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockIndex) DailyReservationCount(ctx context.Context, memberID int, date time.Time) (int, error) {
	args := m.Called(ctx, memberID, date)
	return args.Int(0), args.Error(1)
}

func (m *MockIndex) SameDaySlots(ctx context.Context, memberID int, date time.Time) ([]int, error) {
	args := m.Called(ctx, memberID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

// catalogSlot mirrors the seeded one-hour grid: slot 1 starts at 08:00.
func catalogSlot(id int) *timeslot.TimeSlot {
	start := 800 + (id-1)*100
	partOfDay := "morning"
	switch {
	case start >= 1800:
		partOfDay = "evening"
	case start >= 1200:
		partOfDay = "afternoon"
	}
	return &timeslot.TimeSlot{ID: id, StartTime: start, EndTime: start + 100, PartOfDay: partOfDay}
}

func TestValidator_Validate(t *testing.T) {
	today := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	fixed := clock.NewFixed(today)

	tests := []struct {
		name       string
		cand       Candidate
		setupMocks func(*MockMemberDirectory, *MockEquipmentCatalog, *MockSlotRepo, *MockIndex)
		wantCode   string
		wantSlotID int
	}{
		{
			name: "valid single slot today",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today, SlotIDs: []int{3}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 1).Return(true, nil)
				ec.On("Exists", mock.Anything, 2).Return(true, nil)
				sr.On("GetByID", mock.Anything, 3).Return(catalogSlot(3), nil)
				ix.On("DailyReservationCount", mock.Anything, 1, mock.Anything).Return(0, nil)
				ix.On("SameDaySlots", mock.Anything, 1, mock.Anything).Return([]int{}, nil)
				ix.On("IsAvailable", mock.Anything, 2, 3, mock.Anything).Return(true, nil)
			},
		},
		{
			name: "valid pair of adjacent slots at window edge",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today.AddDate(0, 0, 7), SlotIDs: []int{3, 4}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 1).Return(true, nil)
				ec.On("Exists", mock.Anything, 2).Return(true, nil)
				sr.On("GetByID", mock.Anything, 3).Return(catalogSlot(3), nil)
				sr.On("GetByID", mock.Anything, 4).Return(catalogSlot(4), nil)
				ix.On("DailyReservationCount", mock.Anything, 1, mock.Anything).Return(2, nil)
				ix.On("SameDaySlots", mock.Anything, 1, mock.Anything).Return([]int{7, 8}, nil)
				ix.On("IsAvailable", mock.Anything, 2, 3, mock.Anything).Return(true, nil)
				ix.On("IsAvailable", mock.Anything, 2, 4, mock.Anything).Return(true, nil)
			},
		},
		{
			name: "unknown member",
			cand: Candidate{MemberID: 99, EquipmentID: 2, Date: today, SlotIDs: []int{3}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 99).Return(false, nil)
			},
			wantCode: CodeInvalidReference,
		},
		{
			name: "unknown equipment",
			cand: Candidate{MemberID: 1, EquipmentID: 42, Date: today, SlotIDs: []int{3}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 1).Return(true, nil)
				ec.On("Exists", mock.Anything, 42).Return(false, nil)
			},
			wantCode: CodeInvalidReference,
		},
		{
			name: "unknown time slot",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today, SlotIDs: []int{77}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 1).Return(true, nil)
				ec.On("Exists", mock.Anything, 2).Return(true, nil)
				sr.On("GetByID", mock.Anything, 77).Return(nil, timeslot.ErrSlotNotFound)
			},
			wantCode:   CodeInvalidReference,
			wantSlotID: 77,
		},
		{
			name: "same slot requested twice",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today, SlotIDs: []int{3, 3}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 1).Return(true, nil)
				ec.On("Exists", mock.Anything, 2).Return(true, nil)
				sr.On("GetByID", mock.Anything, 3).Return(catalogSlot(3), nil)
			},
			wantCode:   CodeInvalidReference,
			wantSlotID: 3,
		},
		{
			name: "non-adjacent pair",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today, SlotIDs: []int{3, 5}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 1).Return(true, nil)
				ec.On("Exists", mock.Anything, 2).Return(true, nil)
				sr.On("GetByID", mock.Anything, 3).Return(catalogSlot(3), nil)
				sr.On("GetByID", mock.Anything, 5).Return(catalogSlot(5), nil)
			},
			wantCode: CodeInvalidReference,
		},
		{
			name: "adjacent pair given in reverse order is accepted",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today, SlotIDs: []int{4, 3}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 1).Return(true, nil)
				ec.On("Exists", mock.Anything, 2).Return(true, nil)
				sr.On("GetByID", mock.Anything, 4).Return(catalogSlot(4), nil)
				sr.On("GetByID", mock.Anything, 3).Return(catalogSlot(3), nil)
				ix.On("DailyReservationCount", mock.Anything, 1, mock.Anything).Return(0, nil)
				ix.On("SameDaySlots", mock.Anything, 1, mock.Anything).Return([]int{}, nil)
				ix.On("IsAvailable", mock.Anything, 2, mock.Anything, mock.Anything).Return(true, nil)
			},
		},
		{
			name: "date in the past",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today.AddDate(0, 0, -1), SlotIDs: []int{3}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 1).Return(true, nil)
				ec.On("Exists", mock.Anything, 2).Return(true, nil)
				sr.On("GetByID", mock.Anything, 3).Return(catalogSlot(3), nil)
			},
			wantCode: CodeDateOutOfRange,
		},
		{
			name: "date beyond booking window",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today.AddDate(0, 0, 8), SlotIDs: []int{3}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 1).Return(true, nil)
				ec.On("Exists", mock.Anything, 2).Return(true, nil)
				sr.On("GetByID", mock.Anything, 3).Return(catalogSlot(3), nil)
			},
			wantCode: CodeDateOutOfRange,
		},
		{
			name: "daily cap reached",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today, SlotIDs: []int{3}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 1).Return(true, nil)
				ec.On("Exists", mock.Anything, 2).Return(true, nil)
				sr.On("GetByID", mock.Anything, 3).Return(catalogSlot(3), nil)
				ix.On("DailyReservationCount", mock.Anything, 1, mock.Anything).Return(4, nil)
			},
			wantCode: CodeDailyLimitExceeded,
		},
		{
			name: "pair pushing past daily cap",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today, SlotIDs: []int{3, 4}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 1).Return(true, nil)
				ec.On("Exists", mock.Anything, 2).Return(true, nil)
				sr.On("GetByID", mock.Anything, 3).Return(catalogSlot(3), nil)
				sr.On("GetByID", mock.Anything, 4).Return(catalogSlot(4), nil)
				ix.On("DailyReservationCount", mock.Anything, 1, mock.Anything).Return(3, nil)
			},
			wantCode: CodeDailyLimitExceeded,
		},
		{
			name: "third consecutive slot rejected",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today, SlotIDs: []int{5}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 1).Return(true, nil)
				ec.On("Exists", mock.Anything, 2).Return(true, nil)
				sr.On("GetByID", mock.Anything, 5).Return(catalogSlot(5), nil)
				ix.On("DailyReservationCount", mock.Anything, 1, mock.Anything).Return(2, nil)
				ix.On("SameDaySlots", mock.Anything, 1, mock.Anything).Return([]int{3, 4}, nil)
			},
			wantCode:   CodeConsecutiveLimitExceeded,
			wantSlotID: 5,
		},
		{
			name: "slot bridging two existing slots rejected",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today, SlotIDs: []int{4}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 1).Return(true, nil)
				ec.On("Exists", mock.Anything, 2).Return(true, nil)
				sr.On("GetByID", mock.Anything, 4).Return(catalogSlot(4), nil)
				ix.On("DailyReservationCount", mock.Anything, 1, mock.Anything).Return(2, nil)
				ix.On("SameDaySlots", mock.Anything, 1, mock.Anything).Return([]int{3, 5}, nil)
			},
			wantCode:   CodeConsecutiveLimitExceeded,
			wantSlotID: 4,
		},
		{
			name: "gap between existing slots is allowed",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today, SlotIDs: []int{6}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 1).Return(true, nil)
				ec.On("Exists", mock.Anything, 2).Return(true, nil)
				sr.On("GetByID", mock.Anything, 6).Return(catalogSlot(6), nil)
				ix.On("DailyReservationCount", mock.Anything, 1, mock.Anything).Return(2, nil)
				ix.On("SameDaySlots", mock.Anything, 1, mock.Anything).Return([]int{3, 4}, nil)
				ix.On("IsAvailable", mock.Anything, 2, 6, mock.Anything).Return(true, nil)
			},
		},
		{
			name: "equipment already claimed for slot",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today, SlotIDs: []int{3}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
				md.On("Exists", mock.Anything, 1).Return(true, nil)
				ec.On("Exists", mock.Anything, 2).Return(true, nil)
				sr.On("GetByID", mock.Anything, 3).Return(catalogSlot(3), nil)
				ix.On("DailyReservationCount", mock.Anything, 1, mock.Anything).Return(0, nil)
				ix.On("SameDaySlots", mock.Anything, 1, mock.Anything).Return([]int{}, nil)
				ix.On("IsAvailable", mock.Anything, 2, 3, mock.Anything).Return(false, nil)
			},
			wantCode:   CodeEquipmentUnavailable,
			wantSlotID: 3,
		},
		{
			name: "no slots requested",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today, SlotIDs: nil},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
			},
			wantCode: CodeInvalidReference,
		},
		{
			name: "three slots requested",
			cand: Candidate{MemberID: 1, EquipmentID: 2, Date: today, SlotIDs: []int{3, 4, 5}},
			setupMocks: func(md *MockMemberDirectory, ec *MockEquipmentCatalog, sr *MockSlotRepo, ix *MockIndex) {
			},
			wantCode: CodeInvalidReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members := new(MockMemberDirectory)
			equipment := new(MockEquipmentCatalog)
			slots := new(MockSlotRepo)
			index := new(MockIndex)
			tt.setupMocks(members, equipment, slots, index)

			v := NewValidator(members, equipment, slots, index, fixed)
			err := v.Validate(context.Background(), tt.cand)

			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			r, ok := AsRejection(err)
			require.True(t, ok, "expected a typed rejection, got %v", err)
			assert.Equal(t, tt.wantCode, r.Code)
			if tt.wantSlotID != 0 {
				assert.Equal(t, tt.wantSlotID, r.SlotID)
			}
		})
	}
}

func TestValidator_WindowIgnoresServerTimezone(t *testing.T) {
	// Request dates arrive as UTC midnights while the clock runs in the
	// server's zone; the window must compare calendar days, not instants.
	tests := []struct {
		name string
		now  time.Time
		date time.Time
	}{
		{
			name: "today on a server west of UTC",
			now:  time.Date(2026, 9, 1, 8, 0, 0, 0, time.FixedZone("UTC-5", -5*60*60)),
			date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "last window day on a server east of UTC",
			now:  time.Date(2026, 9, 1, 8, 0, 0, 0, time.FixedZone("UTC+2", 2*60*60)),
			date: time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members := new(MockMemberDirectory)
			equipment := new(MockEquipmentCatalog)
			slots := new(MockSlotRepo)
			index := new(MockIndex)

			members.On("Exists", mock.Anything, 1).Return(true, nil)
			equipment.On("Exists", mock.Anything, 2).Return(true, nil)
			slots.On("GetByID", mock.Anything, 1).Return(catalogSlot(1), nil)
			index.On("DailyReservationCount", mock.Anything, 1, mock.Anything).Return(0, nil)
			index.On("SameDaySlots", mock.Anything, 1, mock.Anything).Return([]int{}, nil)
			index.On("IsAvailable", mock.Anything, 2, 1, mock.Anything).Return(true, nil)

			v := NewValidator(members, equipment, slots, index, clock.NewFixed(tt.now))
			cand := Candidate{
				MemberID:    1,
				EquipmentID: 2,
				Date:        tt.date,
				SlotIDs:     []int{1},
			}

			assert.NoError(t, v.Validate(context.Background(), cand))
		})
	}
}

func TestValidator_WindowIncludesToday(t *testing.T) {
	// Late evening still counts as today.
	fixed := clock.NewFixed(time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC))

	members := new(MockMemberDirectory)
	equipment := new(MockEquipmentCatalog)
	slots := new(MockSlotRepo)
	index := new(MockIndex)

	members.On("Exists", mock.Anything, 1).Return(true, nil)
	equipment.On("Exists", mock.Anything, 2).Return(true, nil)
	slots.On("GetByID", mock.Anything, 1).Return(catalogSlot(1), nil)
	index.On("DailyReservationCount", mock.Anything, 1, mock.Anything).Return(0, nil)
	index.On("SameDaySlots", mock.Anything, 1, mock.Anything).Return([]int{}, nil)
	index.On("IsAvailable", mock.Anything, 2, 1, mock.Anything).Return(true, nil)

	v := NewValidator(members, equipment, slots, index, fixed)
	cand := Candidate{
		MemberID:    1,
		EquipmentID: 2,
		Date:        time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		SlotIDs:     []int{1},
	}

	assert.NoError(t, v.Validate(context.Background(), cand))
}
