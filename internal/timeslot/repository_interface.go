package timeslot

import "context"

type Repository interface {
	GetAll(ctx context.Context) ([]TimeSlot, error)
	GetByPartOfDay(ctx context.Context, partOfDay string) ([]TimeSlot, error)
	GetByID(ctx context.Context, id int) (*TimeSlot, error)
	GetNextConsecutive(ctx context.Context, slot TimeSlot) (*TimeSlot, error)
}
