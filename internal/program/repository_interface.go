package program

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, code, name, target string, startDate time.Time, maxMembers int) (*Program, error)
	GetByCode(ctx context.Context, code string) (*Program, error)
	GetAllWithEnrollment(ctx context.Context) ([]ProgramWithEnrollment, error)
	GetByMember(ctx context.Context, memberID int) ([]Program, error)

	// Enroll atomically re-checks the MaxMembers cap and the duplicate guard
	// inside one transaction.
	Enroll(ctx context.Context, memberID int, code string) error
}
