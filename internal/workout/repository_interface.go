package workout

import (
	"context"
	"time"
)

type Repository interface {
	CreateCycling(ctx context.Context, s CyclingSession) (*CyclingSession, error)
	CreateRunning(ctx context.Context, s RunningSession) (*RunningSession, error)
	GetCyclingByMember(ctx context.Context, memberID int) ([]CyclingSession, error)
	GetRunningByMember(ctx context.Context, memberID int) ([]RunningSession, error)
	GetCyclingByMemberBetween(ctx context.Context, memberID int, from, to time.Time) ([]CyclingSession, error)
	GetRunningByMemberBetween(ctx context.Context, memberID int, from, to time.Time) ([]RunningSession, error)
}
