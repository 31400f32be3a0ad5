package types

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleRow is one flattened schedule item: one candidate, one
// activity, one room, one time slot on one interview date.
type ScheduleRow struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SolveRunID    uuid.UUID `gorm:"type:uuid;not null;index" json:"solve_run_id"`
	SolveRun      *SolveRun `gorm:"constraint:OnDelete:CASCADE;foreignKey:SolveRunID;references:ID" json:"solve_run,omitempty"`
	CandidateID   string    `gorm:"column:candidate_id;not null;index" json:"candidate_id"`
	JobCode       string    `gorm:"column:job_code;not null" json:"job_code"`
	InterviewDate string    `gorm:"column:interview_date;not null;index" json:"interview_date"`
	Activity      string    `gorm:"column:activity;not null" json:"activity"`
	Room          string    `gorm:"column:room;not null" json:"room"`
	StartTime     string    `gorm:"column:start_time;not null" json:"start_time"`
	EndTime       string    `gorm:"column:end_time;not null" json:"end_time"`
	GroupSize     int       `gorm:"column:group_size;not null;default:1" json:"group_size"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ScheduleRow) TableName() string { return "schedule_row" }
