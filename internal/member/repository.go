package member

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"fitbook/internal/db"
)

var ErrMemberNotFound = errors.New("member not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

const memberColumns = `id, first_name, last_name, email, password_hash, address, birthday, interests, member_type, role, created_at`

func (r *repository) Create(ctx context.Context, p CreateMemberParams) (*Member, error) {
	query := `
		INSERT INTO members (first_name, last_name, email, password_hash, address, birthday, interests, member_type, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'Bronze', $8)
		RETURNING ` + memberColumns

	var m Member
	err := r.db.GetContext(ctx, &m, query,
		p.FirstName, p.LastName, p.Email, p.PasswordHash, p.Address, p.Birthday, p.Interests, p.Role)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE email = $1`

	var m Member
	err := r.db.GetContext(ctx, &m, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	var m Member
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY id ASC`

	var members []Member
	err := r.db.SelectContext(ctx, &members, query)
	if err != nil {
		return nil, err
	}

	return members, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM members WHERE email = $1)`, email)
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)`, id)
}

func (r *repository) UpdateProfile(ctx context.Context, id int, firstName, lastName, address string, interests *string) (*Member, error) {
	query := `
		UPDATE members
		SET first_name = $1, last_name = $2, address = $3, interests = $4
		WHERE id = $5
		RETURNING ` + memberColumns

	var m Member
	err := r.db.GetContext(ctx, &m, query, firstName, lastName, address, interests, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	return &m, nil
}
