package reservation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *repository) AddAtomic(ctx context.Context, cand Candidate) (*Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Serialize bookings per member so the daily-cap re-check below cannot
	// race against another insert for the same member.
	var memberID int
	err = tx.GetContext(ctx, &memberID,
		`SELECT id FROM members WHERE id = $1 FOR UPDATE`,
		cand.MemberID,
	)
	if err != nil {
		return nil, err
	}

	var units int
	err = tx.GetContext(ctx, &units, `
		SELECT COUNT(*)
		FROM reservation_slots rs
		JOIN reservations res ON res.id = rs.reservation_id
		WHERE res.member_id = $1 AND res.date = $2
	`, cand.MemberID, cand.Date)
	if err != nil {
		return nil, err
	}

	if units+len(cand.SlotIDs) > MaxDailySlotUnits {
		return nil, ErrDailyCapExceeded
	}

	var res Reservation
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO reservations (member_id, equipment_id, date)
		VALUES ($1, $2, $3)
		RETURNING id, member_id, equipment_id, date, created_at
	`, cand.MemberID, cand.EquipmentID, cand.Date).StructScan(&res)
	if err != nil {
		return nil, err
	}

	// The unique constraint on (equipment_id, date, time_slot_id) is the sole
	// authority for slot uniqueness; a violation here means another booking
	// won the race and the whole transaction rolls back.
	for _, slotID := range cand.SlotIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO reservation_slots (reservation_id, equipment_id, date, time_slot_id)
			VALUES ($1, $2, $3, $4)
		`, res.ID, cand.EquipmentID, cand.Date, slotID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrConflict
			}
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	res.SlotIDs = append([]int(nil), cand.SlotIDs...)
	return &res, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Reservation, error) {
	var res Reservation
	err := r.db.GetContext(ctx, &res, `
		SELECT id, member_id, equipment_id, date, created_at
		FROM reservations
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	if err := r.loadSlots(ctx, &res); err != nil {
		return nil, err
	}

	return &res, nil
}

func (r *repository) GetByMember(ctx context.Context, memberID int) ([]Reservation, error) {
	query := `
		SELECT res.id, res.member_id, res.equipment_id, res.date, res.created_at
		FROM reservations res
		JOIN reservation_slots rs ON rs.reservation_id = res.id
		JOIN time_slots ts ON ts.id = rs.time_slot_id
		WHERE res.member_id = $1
		GROUP BY res.id
		ORDER BY res.date ASC, MIN(ts.start_time) ASC
	`

	var list []Reservation
	err := r.db.SelectContext(ctx, &list, query, memberID)
	if err != nil {
		return nil, err
	}

	for i := range list {
		if err := r.loadSlots(ctx, &list[i]); err != nil {
			return nil, err
		}
	}

	return list, nil
}

func (r *repository) GetFutureByEquipment(ctx context.Context, equipmentID int, from time.Time) ([]Reservation, error) {
	query := `
		SELECT res.id, res.member_id, res.equipment_id, res.date, res.created_at
		FROM reservations res
		JOIN reservation_slots rs ON rs.reservation_id = res.id
		JOIN time_slots ts ON ts.id = rs.time_slot_id
		WHERE res.equipment_id = $1 AND res.date >= $2
		GROUP BY res.id
		ORDER BY res.date ASC, MIN(ts.start_time) ASC
	`

	var list []Reservation
	err := r.db.SelectContext(ctx, &list, query, equipmentID, from)
	if err != nil {
		return nil, err
	}

	for i := range list {
		if err := r.loadSlots(ctx, &list[i]); err != nil {
			return nil, err
		}
	}

	return list, nil
}

func (r *repository) DeleteByID(ctx context.Context, id int) (*Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var res Reservation
	err = tx.GetContext(ctx, &res, `
		SELECT id, member_id, equipment_id, date, created_at
		FROM reservations
		WHERE id = $1
		FOR UPDATE
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	err = tx.SelectContext(ctx, &res.SlotIDs, `
		SELECT time_slot_id
		FROM reservation_slots
		WHERE reservation_id = $1
		ORDER BY time_slot_id ASC
	`, id)
	if err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM reservation_slots WHERE reservation_id = $1`, id); err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &res, nil
}

func (r *repository) IsAvailable(ctx context.Context, equipmentID, slotID int, date time.Time) (bool, error) {
	var taken bool
	err := r.db.GetContext(ctx, &taken, `
		SELECT EXISTS(
			SELECT 1 FROM reservation_slots
			WHERE equipment_id = $1 AND time_slot_id = $2 AND date = $3
		)
	`, equipmentID, slotID, date)
	if err != nil {
		return false, err
	}

	return !taken, nil
}

func (r *repository) DailyReservationCount(ctx context.Context, memberID int, date time.Time) (int, error) {
	var units int
	err := r.db.GetContext(ctx, &units, `
		SELECT COUNT(*)
		FROM reservation_slots rs
		JOIN reservations res ON res.id = rs.reservation_id
		WHERE res.member_id = $1 AND res.date = $2
	`, memberID, date)
	if err != nil {
		return 0, err
	}

	return units, nil
}

func (r *repository) SameDaySlots(ctx context.Context, memberID int, date time.Time) ([]int, error) {
	var slotIDs []int
	err := r.db.SelectContext(ctx, &slotIDs, `
		SELECT rs.time_slot_id
		FROM reservation_slots rs
		JOIN reservations res ON res.id = rs.reservation_id
		WHERE res.member_id = $1 AND res.date = $2
		ORDER BY rs.time_slot_id ASC
	`, memberID, date)
	if err != nil {
		return nil, err
	}

	return slotIDs, nil
}

func (r *repository) loadSlots(ctx context.Context, res *Reservation) error {
	return r.db.SelectContext(ctx, &res.SlotIDs, `
		SELECT time_slot_id
		FROM reservation_slots
		WHERE reservation_id = $1
		ORDER BY time_slot_id ASC
	`, res.ID)
}
