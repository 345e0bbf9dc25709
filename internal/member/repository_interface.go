package member

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, m CreateMemberParams) (*Member, error)
	FindByEmail(ctx context.Context, email string) (*Member, error)
	FindByID(ctx context.Context, id int) (*Member, error)
	GetAll(ctx context.Context) ([]Member, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Exists(ctx context.Context, id int) (bool, error)
	UpdateProfile(ctx context.Context, id int, firstName, lastName, address string, interests *string) (*Member, error)
}

type CreateMemberParams struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Address      string
	Birthday     time.Time
	Interests    *string
	Role         string
}
