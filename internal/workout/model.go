package workout

import "time"

type TrainingType string

const (
	TrainingFun       TrainingType = "fun"
	TrainingEndurance TrainingType = "endurance"
	TrainingInterval  TrainingType = "interval"
	TrainingRecovery  TrainingType = "recovery"
)

type CyclingSession struct {
	ID           int          `db:"id" json:"id"`
	MemberID     int          `db:"member_id" json:"member_id"`
	Date         time.Time    `db:"date" json:"date"`
	DurationMin  int          `db:"duration_min" json:"duration_min"`
	AvgWatt      int          `db:"avg_watt" json:"avg_watt"`
	MaxWatt      int          `db:"max_watt" json:"max_watt"`
	AvgCadence   int          `db:"avg_cadence" json:"avg_cadence"`
	MaxCadence   int          `db:"max_cadence" json:"max_cadence"`
	TrainingType TrainingType `db:"training_type" json:"training_type"`
	Comment      *string      `db:"comment" json:"comment,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

type RunningSession struct {
	ID          int               `db:"id" json:"id"`
	MemberID    int               `db:"member_id" json:"member_id"`
	Date        time.Time         `db:"date" json:"date"`
	DurationMin int               `db:"duration_min" json:"duration_min"`
	AvgSpeed    float64           `db:"avg_speed" json:"avg_speed"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	Intervals   []RunningInterval `db:"-" json:"intervals,omitempty"`
}

type RunningInterval struct {
	RunningSessionID int     `db:"running_session_id" json:"-"`
	SeqNr            int     `db:"seq_nr" json:"seq_nr"`
	IntervalTime     int     `db:"interval_time" json:"interval_time"`
	IntervalSpeed    float64 `db:"interval_speed" json:"interval_speed"`
}

type CreateCyclingSessionRequest struct {
	Date         string  `json:"date" binding:"required"`
	DurationMin  int     `json:"duration_min" binding:"required,min=1"`
	AvgWatt      int     `json:"avg_watt" binding:"required,min=1"`
	MaxWatt      int     `json:"max_watt" binding:"required,min=1"`
	AvgCadence   int     `json:"avg_cadence" binding:"required,min=1"`
	MaxCadence   int     `json:"max_cadence" binding:"required,min=1"`
	TrainingType string  `json:"training_type" binding:"required,oneof=fun endurance interval recovery"`
	Comment      *string `json:"comment"`
}

type CreateRunningSessionRequest struct {
	Date        string                   `json:"date" binding:"required"`
	DurationMin int                      `json:"duration_min" binding:"required,min=1"`
	AvgSpeed    float64                  `json:"avg_speed" binding:"required,gt=0"`
	Intervals   []CreateIntervalRequest  `json:"intervals"`
}

type CreateIntervalRequest struct {
	IntervalTime  int     `json:"interval_time" binding:"required,min=1"`
	IntervalSpeed float64 `json:"interval_speed" binding:"required,gt=0"`
}

// TrainingStatistics aggregates a member's sessions across both disciplines.
type TrainingStatistics struct {
	TotalSessions          int            `json:"total_sessions"`
	TotalHours             float64        `json:"total_hours"`
	ShortestSessionMinutes int            `json:"shortest_session_minutes"`
	LongestSessionMinutes  int            `json:"longest_session_minutes"`
	AverageSessionMinutes  float64        `json:"average_session_minutes"`
	SessionsByType         map[string]int `json:"sessions_by_type"`
}

// MonthlyStatistics narrows the aggregate to one calendar month.
type MonthlyStatistics struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Sessions []SessionSummary `json:"sessions"`
	TrainingStatistics
}

type SessionSummary struct {
	Date            time.Time `json:"date"`
	Kind            string    `json:"kind"`
	DurationMinutes int       `json:"duration_minutes"`
}
