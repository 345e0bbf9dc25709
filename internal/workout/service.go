package workout

import (
	"context"
	"errors"
	"time"

	"fitbook/internal/metrics"
)

var ErrInvalidSession = errors.New("invalid session data")

type Service interface {
	LogCyclingSession(ctx context.Context, memberID int, req CreateCyclingSessionRequest) (*CyclingSession, error)
	LogRunningSession(ctx context.Context, memberID int, req CreateRunningSessionRequest) (*RunningSession, error)
	ListCyclingSessions(ctx context.Context, memberID int) ([]CyclingSession, error)
	ListRunningSessions(ctx context.Context, memberID int) ([]RunningSession, error)
	TrainingStatistics(ctx context.Context, memberID int) (*TrainingStatistics, error)
	MonthlyStatistics(ctx context.Context, memberID, year, month int) (*MonthlyStatistics, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogCyclingSession(ctx context.Context, memberID int, req CreateCyclingSessionRequest) (*CyclingSession, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidSession
	}
	if req.MaxWatt < req.AvgWatt || req.MaxCadence < req.AvgCadence {
		return nil, ErrInvalidSession
	}

	created, err := s.repo.CreateCycling(ctx, CyclingSession{
		MemberID:     memberID,
		Date:         date,
		DurationMin:  req.DurationMin,
		AvgWatt:      req.AvgWatt,
		MaxWatt:      req.MaxWatt,
		AvgCadence:   req.AvgCadence,
		MaxCadence:   req.MaxCadence,
		TrainingType: TrainingType(req.TrainingType),
		Comment:      req.Comment,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordWorkoutSession("cycling")
	return created, nil
}

func (s *service) LogRunningSession(ctx context.Context, memberID int, req CreateRunningSessionRequest) (*RunningSession, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidSession
	}

	session := RunningSession{
		MemberID:    memberID,
		Date:        date,
		DurationMin: req.DurationMin,
		AvgSpeed:    req.AvgSpeed,
	}
	for _, iv := range req.Intervals {
		session.Intervals = append(session.Intervals, RunningInterval{
			IntervalTime:  iv.IntervalTime,
			IntervalSpeed: iv.IntervalSpeed,
		})
	}

	created, err := s.repo.CreateRunning(ctx, session)
	if err != nil {
		return nil, err
	}

	metrics.RecordWorkoutSession("running")
	return created, nil
}

func (s *service) ListCyclingSessions(ctx context.Context, memberID int) ([]CyclingSession, error) {
	return s.repo.GetCyclingByMember(ctx, memberID)
}

func (s *service) ListRunningSessions(ctx context.Context, memberID int) ([]RunningSession, error) {
	return s.repo.GetRunningByMember(ctx, memberID)
}

func (s *service) TrainingStatistics(ctx context.Context, memberID int) (*TrainingStatistics, error) {
	cycling, err := s.repo.GetCyclingByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	running, err := s.repo.GetRunningByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	stats := aggregate(cycling, running)
	return &stats, nil
}

func (s *service) MonthlyStatistics(ctx context.Context, memberID, year, month int) (*MonthlyStatistics, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidSession
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	cycling, err := s.repo.GetCyclingByMemberBetween(ctx, memberID, from, to)
	if err != nil {
		return nil, err
	}
	running, err := s.repo.GetRunningByMemberBetween(ctx, memberID, from, to)
	if err != nil {
		return nil, err
	}

	result := &MonthlyStatistics{
		Year:               year,
		Month:              month,
		TrainingStatistics: aggregate(cycling, running),
	}
	for _, c := range cycling {
		result.Sessions = append(result.Sessions, SessionSummary{Date: c.Date, Kind: "cycling", DurationMinutes: c.DurationMin})
	}
	for _, r := range running {
		result.Sessions = append(result.Sessions, SessionSummary{Date: r.Date, Kind: "running", DurationMinutes: r.DurationMin})
	}

	return result, nil
}

func aggregate(cycling []CyclingSession, running []RunningSession) TrainingStatistics {
	stats := TrainingStatistics{
		SessionsByType: make(map[string]int),
	}

	totalMinutes := 0
	observe := func(minutes int) {
		stats.TotalSessions++
		totalMinutes += minutes
		if stats.ShortestSessionMinutes == 0 || minutes < stats.ShortestSessionMinutes {
			stats.ShortestSessionMinutes = minutes
		}
		if minutes > stats.LongestSessionMinutes {
			stats.LongestSessionMinutes = minutes
		}
	}

	for _, c := range cycling {
		observe(c.DurationMin)
		stats.SessionsByType[string(c.TrainingType)]++
	}
	for _, r := range running {
		observe(r.DurationMin)
		stats.SessionsByType["running"]++
	}

	if stats.TotalSessions > 0 {
		stats.TotalHours = float64(totalMinutes) / 60
		stats.AverageSessionMinutes = float64(totalMinutes) / float64(stats.TotalSessions)
	}

	return stats
}
