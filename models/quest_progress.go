package models

import "time"

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
	ProgressFailed     ProgressStatus = "failed"
)

// QuestProgress is the per-student-per-quest record. The composite unique
// index enforces at most one row per (quest, student) pair.
type QuestProgress struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	QuestID     uint           `gorm:"not null;uniqueIndex:idx_quest_student" json:"quest_id"`
	UserID      uint           `gorm:"not null;uniqueIndex:idx_quest_student" json:"user_id"`
	Status      ProgressStatus `gorm:"size:20;not null;default:'in_progress'" json:"status"`
	Score       *int           `json:"score,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Quest *Quest `gorm:"foreignKey:QuestID" json:"quest,omitempty"`
}

func (QuestProgress) TableName() string {
	return "quest_progress"
}
