package equipment

import "context"

type Repository interface {
	Create(ctx context.Context, deviceType string) (*Equipment, error)
	GetAll(ctx context.Context) ([]Equipment, error)
	GetByID(ctx context.Context, id int) (*Equipment, error)
	Exists(ctx context.Context, id int) (bool, error)
	Label(ctx context.Context, id int) (string, error)
}
