package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SolveRun is one invocation of the scheduling engine across one or more
// interview dates.
type SolveRun struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Status      string         `gorm:"column:status;not null" json:"status"`
	Mode        string         `gorm:"column:mode;not null" json:"mode"`
	Dates       datatypes.JSON `gorm:"column:dates;type:jsonb" json:"dates"`
	Diagnostics datatypes.JSON `gorm:"column:diagnostics;type:jsonb" json:"diagnostics,omitempty"`
	Stats       datatypes.JSON `gorm:"column:stats;type:jsonb" json:"stats,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (SolveRun) TableName() string { return "solve_run" }
