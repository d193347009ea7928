package models

import "time"

// DailyRewardClaim is immutable once written. ClaimDate holds the calendar
// day as YYYY-MM-DD; the unique index makes a second claim on the same day
// fail at the database even if two requests race past the handler check.
type DailyRewardClaim struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_claim_day" json:"user_id"`
	ClaimDate string    `gorm:"size:10;not null;uniqueIndex:idx_user_claim_day" json:"claim_date"`
	Streak    int       `gorm:"not null" json:"streak"`
	XPAwarded int       `gorm:"column:xp_awarded;not null" json:"xp_awarded"`
	ClaimedAt time.Time `json:"claimed_at"`
}

func (DailyRewardClaim) TableName() string {
	return "daily_reward_claims"
}
