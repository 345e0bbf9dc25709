package program

import "time"

type Program struct {
	Code       string    `db:"code" json:"code"`
	Name       string    `db:"name" json:"name"`
	Target     string    `db:"target" json:"target"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	MaxMembers int       `db:"max_members" json:"max_members"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type ProgramWithEnrollment struct {
	Program
	EnrolledCount int  `db:"enrolled_count" json:"enrolled_count"`
	IsFull        bool `db:"-" json:"is_full"`
}

type CreateProgramRequest struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Target     string `json:"target" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
	MaxMembers int    `json:"max_members" binding:"required,min=1"`
}
