package models

import "time"

type Quest struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:150;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	XPReward    int        `gorm:"column:xp_reward;not null" json:"xp_reward"`
	Published   bool       `gorm:"not null;default:false" json:"published"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedBy   uint       `gorm:"not null;index" json:"created_by"`
	Active      bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Quest) TableName() string {
	return "quests"
}
