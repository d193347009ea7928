package gamify

import (
	"github.com/miko1qq/colink-sub000/models"

	"gorm.io/gorm"
)

// AwardResult is the outcome of one XP grant.
type AwardResult struct {
	XP        int  `json:"xp"`
	Level     int  `json:"level"`
	LeveledUp bool `json:"leveled_up"`
}

// AwardXP adds a positive amount of XP to the user and recomputes the level.
// The increment runs as a relative UPDATE (xp = xp + ?) inside a transaction
// so two concurrent awards to the same user cannot lose an update.
//
// This is an accumulator, not idempotent: callers must make sure the same
// logical event (quest completion, daily claim) only reaches it once.
func AwardXP(db *gorm.DB, userID uint, amount int) (*AwardResult, error) {
	var result *AwardResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = awardXP(tx, userID, amount)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// awardXP is the transactional body, shared with CompleteQuest and
// ClaimDailyReward so the grant joins their enclosing transaction.
func awardXP(tx *gorm.DB, userID uint, amount int) (*AwardResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("xp", gorm.Expr("xp + ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	var user models.User
	if err := tx.Select("id, xp, level").First(&user, userID).Error; err != nil {
		return nil, err
	}

	newLevel := LevelForXP(user.XP)
	leveledUp := newLevel > user.Level
	if newLevel != user.Level {
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("level", newLevel).Error; err != nil {
			return nil, err
		}
	}

	return &AwardResult{XP: user.XP, Level: newLevel, LeveledUp: leveledUp}, nil
}
