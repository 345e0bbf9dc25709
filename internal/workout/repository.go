package workout

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCycling(ctx context.Context, s CyclingSession) (*CyclingSession, error) {
	query := `
		INSERT INTO cycling_sessions (member_id, date, duration_min, avg_watt, max_watt, avg_cadence, max_cadence, training_type, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, member_id, date, duration_min, avg_watt, max_watt, avg_cadence, max_cadence, training_type, comment, created_at
	`

	var created CyclingSession
	err := r.db.GetContext(ctx, &created, query,
		s.MemberID, s.Date, s.DurationMin, s.AvgWatt, s.MaxWatt, s.AvgCadence, s.MaxCadence, s.TrainingType, s.Comment)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) CreateRunning(ctx context.Context, s RunningSession) (*RunningSession, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var created RunningSession
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO running_sessions (member_id, date, duration_min, avg_speed)
		VALUES ($1, $2, $3, $4)
		RETURNING id, member_id, date, duration_min, avg_speed, created_at
	`, s.MemberID, s.Date, s.DurationMin, s.AvgSpeed).StructScan(&created)
	if err != nil {
		return nil, err
	}

	for i, iv := range s.Intervals {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO running_intervals (running_session_id, seq_nr, interval_time, interval_speed)
			VALUES ($1, $2, $3, $4)
		`, created.ID, i+1, iv.IntervalTime, iv.IntervalSpeed)
		if err != nil {
			return nil, err
		}
		created.Intervals = append(created.Intervals, RunningInterval{
			RunningSessionID: created.ID,
			SeqNr:            i + 1,
			IntervalTime:     iv.IntervalTime,
			IntervalSpeed:    iv.IntervalSpeed,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetCyclingByMember(ctx context.Context, memberID int) ([]CyclingSession, error) {
	query := `
		SELECT id, member_id, date, duration_min, avg_watt, max_watt, avg_cadence, max_cadence, training_type, comment, created_at
		FROM cycling_sessions
		WHERE member_id = $1
		ORDER BY date DESC
	`

	var sessions []CyclingSession
	err := r.db.SelectContext(ctx, &sessions, query, memberID)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *repository) GetRunningByMember(ctx context.Context, memberID int) ([]RunningSession, error) {
	query := `
		SELECT id, member_id, date, duration_min, avg_speed, created_at
		FROM running_sessions
		WHERE member_id = $1
		ORDER BY date DESC
	`

	var sessions []RunningSession
	err := r.db.SelectContext(ctx, &sessions, query, memberID)
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		if err := r.loadIntervals(ctx, &sessions[i]); err != nil {
			return nil, err
		}
	}

	return sessions, nil
}

func (r *repository) GetCyclingByMemberBetween(ctx context.Context, memberID int, from, to time.Time) ([]CyclingSession, error) {
	query := `
		SELECT id, member_id, date, duration_min, avg_watt, max_watt, avg_cadence, max_cadence, training_type, comment, created_at
		FROM cycling_sessions
		WHERE member_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC
	`

	var sessions []CyclingSession
	err := r.db.SelectContext(ctx, &sessions, query, memberID, from, to)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *repository) GetRunningByMemberBetween(ctx context.Context, memberID int, from, to time.Time) ([]RunningSession, error) {
	query := `
		SELECT id, member_id, date, duration_min, avg_speed, created_at
		FROM running_sessions
		WHERE member_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC
	`

	var sessions []RunningSession
	err := r.db.SelectContext(ctx, &sessions, query, memberID, from, to)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *repository) loadIntervals(ctx context.Context, s *RunningSession) error {
	return r.db.SelectContext(ctx, &s.Intervals, `
		SELECT running_session_id, seq_nr, interval_time, interval_speed
		FROM running_intervals
		WHERE running_session_id = $1
		ORDER BY seq_nr ASC
	`, s.ID)
}
