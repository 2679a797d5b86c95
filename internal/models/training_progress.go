package models

import (
	"time"
)

// TrainingProgress tracks one profile's progress through one training module.
// At most one row exists per (profile, module); progress events upsert it.
// PercentComplete is clamped non-decreasing on the server so a stale tab can
// never rewind completed training.
type TrainingProgress struct {
	ProfileID string `json:"profile_id" gorm:"primaryKey;size:64"`
	ModuleID  string `json:"module_id" gorm:"primaryKey;size:64"`

	PositionSeconds int      `json:"position_seconds" gorm:"not null;default:0"`
	PercentComplete float64  `json:"percent_complete" gorm:"not null;default:0"`
	Completed       bool     `json:"completed" gorm:"not null;default:false"`
	AttemptCount    int      `json:"attempt_count" gorm:"not null;default:0"`
	Score           *float64 `json:"score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TrainingProgress) TableName() string {
	return "training_progress"
}
