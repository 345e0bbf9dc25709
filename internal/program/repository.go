package program

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrProgramNotFound = errors.New("program not found")
	ErrProgramFull     = errors.New("program is full")
	ErrAlreadyEnrolled = errors.New("member already enrolled in program")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, code, name, target string, startDate time.Time, maxMembers int) (*Program, error) {
	query := `
		INSERT INTO programs (code, name, target, start_date, max_members)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING code, name, target, start_date, max_members, created_at
	`

	var p Program
	err := r.db.GetContext(ctx, &p, query, code, name, target, startDate, maxMembers)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Program, error) {
	query := `
		SELECT code, name, target, start_date, max_members, created_at
		FROM programs
		WHERE code = $1
	`

	var p Program
	err := r.db.GetContext(ctx, &p, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetAllWithEnrollment(ctx context.Context) ([]ProgramWithEnrollment, error) {
	query := `
		SELECT p.code, p.name, p.target, p.start_date, p.max_members, p.created_at,
			COUNT(pm.member_id) AS enrolled_count
		FROM programs p
		LEFT JOIN program_members pm ON pm.program_code = p.code
		GROUP BY p.code
		ORDER BY p.start_date ASC
	`

	var list []ProgramWithEnrollment
	err := r.db.SelectContext(ctx, &list, query)
	if err != nil {
		return nil, err
	}

	for i := range list {
		list[i].IsFull = list[i].EnrolledCount >= list[i].MaxMembers
	}

	return list, nil
}

func (r *repository) GetByMember(ctx context.Context, memberID int) ([]Program, error) {
	query := `
		SELECT p.code, p.name, p.target, p.start_date, p.max_members, p.created_at
		FROM programs p
		JOIN program_members pm ON pm.program_code = p.code
		WHERE pm.member_id = $1
		ORDER BY p.start_date ASC
	`

	var list []Program
	err := r.db.SelectContext(ctx, &list, query, memberID)
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (r *repository) Enroll(ctx context.Context, memberID int, code string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var p Program
	err = tx.GetContext(ctx, &p, `
		SELECT code, name, target, start_date, max_members, created_at
		FROM programs
		WHERE code = $1
		FOR UPDATE
	`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProgramNotFound
		}
		return err
	}

	var enrolled int
	err = tx.GetContext(ctx, &enrolled, `
		SELECT COUNT(*) FROM program_members WHERE program_code = $1
	`, code)
	if err != nil {
		return err
	}

	if enrolled >= p.MaxMembers {
		return ErrProgramFull
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO program_members (program_code, member_id)
		VALUES ($1, $2)
	`, code, memberID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyEnrolled
		}
		return err
	}

	return tx.Commit()
}
