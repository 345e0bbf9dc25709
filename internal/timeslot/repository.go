package timeslot

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrSlotNotFound = errors.New("time slot not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAll(ctx context.Context) ([]TimeSlot, error) {
	query := `
		SELECT id, start_time, end_time, part_of_day
		FROM time_slots
		ORDER BY start_time ASC
	`

	var slots []TimeSlot
	err := r.db.SelectContext(ctx, &slots, query)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *repository) GetByPartOfDay(ctx context.Context, partOfDay string) ([]TimeSlot, error) {
	query := `
		SELECT id, start_time, end_time, part_of_day
		FROM time_slots
		WHERE part_of_day = $1
		ORDER BY start_time ASC
	`

	var slots []TimeSlot
	err := r.db.SelectContext(ctx, &slots, query, partOfDay)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*TimeSlot, error) {
	query := `
		SELECT id, start_time, end_time, part_of_day
		FROM time_slots
		WHERE id = $1
	`

	var slot TimeSlot
	err := r.db.GetContext(ctx, &slot, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &slot, nil
}

func (r *repository) GetNextConsecutive(ctx context.Context, slot TimeSlot) (*TimeSlot, error) {
	query := `
		SELECT id, start_time, end_time, part_of_day
		FROM time_slots
		WHERE start_time = $1
	`

	var next TimeSlot
	err := r.db.GetContext(ctx, &next, query, slot.EndTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &next, nil
}
