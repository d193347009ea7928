package gamify

import (
	"errors"
	"strings"
	"time"

	"github.com/miko1qq/colink-sub000/models"

	"gorm.io/gorm"
)

const claimDateLayout = "2006-01-02"

// isDuplicateKey recognizes a unique-index violation from either backend
// (MySQL "Duplicate entry", sqlite "UNIQUE constraint failed").
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint")
}

// ClaimResult is the outcome of a successful daily claim.
type ClaimResult struct {
	Streak int          `json:"streak"`
	Reward int          `json:"reward"`
	Award  *AwardResult `json:"award"`
}

// ClaimDailyReward records today's claim and awards the streak-ramped XP.
// At most one claim per user per calendar day; the streak continues only when
// the previous claim was exactly yesterday.
func ClaimDailyReward(db *gorm.DB, userID uint) (*ClaimResult, error) {
	return claimDailyRewardAt(db, userID, time.Now())
}

func claimDailyRewardAt(db *gorm.DB, userID uint, now time.Time) (*ClaimResult, error) {
	var user models.User
	if err := db.Select("id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	today := now.Format(claimDateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(claimDateLayout)

	streak := 1
	var last models.DailyRewardClaim
	err := db.Where("user_id = ?", userID).Order("claim_date DESC").First(&last).Error
	switch {
	case err == nil:
		if last.ClaimDate == today {
			return nil, ErrAlreadyClaimed
		}
		if last.ClaimDate == yesterday {
			streak = last.Streak + 1
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first claim ever, streak stays 1
	default:
		return nil, err
	}

	reward := DailyRewardXP(streak)

	var award *AwardResult
	err = db.Transaction(func(tx *gorm.DB) error {
		claim := models.DailyRewardClaim{
			UserID:    userID,
			ClaimDate: today,
			Streak:    streak,
			XPAwarded: reward,
			ClaimedAt: now,
		}
		// The unique (user_id, claim_date) index rejects a racing duplicate:
		// the loser of the race gets the same AlreadyClaimed outcome as a
		// plain repeat claim.
		if err := tx.Create(&claim).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrAlreadyClaimed
			}
			return err
		}
		var txErr error
		award, txErr = awardXP(tx, userID, reward)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	return &ClaimResult{Streak: streak, Reward: reward, Award: award}, nil
}

// DailyStatus reports whether the user has claimed today and the streak a
// claim right now would record.
type DailyStatus struct {
	ClaimedToday  bool `json:"claimed_today"`
	CurrentStreak int  `json:"current_streak"`
	NextReward    int  `json:"next_reward"`
}

func GetDailyStatus(db *gorm.DB, userID uint) (*DailyStatus, error) {
	return getDailyStatusAt(db, userID, time.Now())
}

func getDailyStatusAt(db *gorm.DB, userID uint, now time.Time) (*DailyStatus, error) {
	today := now.Format(claimDateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(claimDateLayout)

	var last models.DailyRewardClaim
	err := db.Where("user_id = ?", userID).Order("claim_date DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &DailyStatus{ClaimedToday: false, CurrentStreak: 0, NextReward: DailyRewardXP(1)}, nil
	}
	if err != nil {
		return nil, err
	}

	switch last.ClaimDate {
	case today:
		return &DailyStatus{ClaimedToday: true, CurrentStreak: last.Streak, NextReward: DailyRewardXP(last.Streak + 1)}, nil
	case yesterday:
		return &DailyStatus{ClaimedToday: false, CurrentStreak: last.Streak, NextReward: DailyRewardXP(last.Streak + 1)}, nil
	default:
		return &DailyStatus{ClaimedToday: false, CurrentStreak: 0, NextReward: DailyRewardXP(1)}, nil
	}
}
