package models

import "time"

type BadgeTier string

const (
	TierBronze   BadgeTier = "bronze"
	TierSilver   BadgeTier = "silver"
	TierGold     BadgeTier = "gold"
	TierPlatinum BadgeTier = "platinum"
)

// Badge definitions are seed data. XPThreshold = 0 marks an event badge that
// is only granted by an explicit call, never by the threshold scan.
type Badge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:255" json:"icon"`
	XPThreshold int       `gorm:"column:xp_threshold;not null;default:0" json:"xp_threshold"`
	Tier        BadgeTier `gorm:"size:20;not null;default:'bronze'" json:"tier"`
	CreatedAt   time.Time `json:"-"`
}

func (Badge) TableName() string {
	return "badges"
}
