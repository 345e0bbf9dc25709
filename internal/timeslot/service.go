package timeslot

import "context"

type Service interface {
	AllSlots(ctx context.Context) ([]TimeSlot, error)
	SlotsForPartOfDay(ctx context.Context, partOfDay string) ([]TimeSlot, error)
	GetByID(ctx context.Context, id int) (*TimeSlot, error)
	NextConsecutive(ctx context.Context, slot TimeSlot) (*TimeSlot, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) AllSlots(ctx context.Context) ([]TimeSlot, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) SlotsForPartOfDay(ctx context.Context, partOfDay string) ([]TimeSlot, error) {
	return s.repo.GetByPartOfDay(ctx, partOfDay)
}

func (s *service) GetByID(ctx context.Context, id int) (*TimeSlot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) NextConsecutive(ctx context.Context, slot TimeSlot) (*TimeSlot, error) {
	return s.repo.GetNextConsecutive(ctx, slot)
}
