package equipment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"fitbook/internal/db"
)

var ErrEquipmentNotFound = errors.New("equipment not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Create(ctx context.Context, deviceType string) (*Equipment, error) {
	query := `
		INSERT INTO equipment (device_type)
		VALUES ($1)
		RETURNING id, device_type, created_at
	`

	var eq Equipment
	err := r.db.GetContext(ctx, &eq, query, deviceType)
	if err != nil {
		return nil, err
	}

	return &eq, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Equipment, error) {
	query := `
		SELECT id, device_type, created_at
		FROM equipment
		ORDER BY id ASC
	`

	var list []Equipment
	err := r.db.SelectContext(ctx, &list, query)
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Equipment, error) {
	query := `
		SELECT id, device_type, created_at
		FROM equipment
		WHERE id = $1
	`

	var eq Equipment
	err := r.db.GetContext(ctx, &eq, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}

	return &eq, nil
}

func (r *repository) Exists(ctx context.Context, id int) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM equipment WHERE id = $1)`, id)
}

func (r *repository) Label(ctx context.Context, id int) (string, error) {
	eq, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return eq.DeviceType, nil
}
