package gamify

import (
	"errors"
	"time"

	"github.com/miko1qq/colink-sub000/models"

	"gorm.io/gorm"
)

// PerfectScoreBadge is the event badge granted on a completion with score 100.
const PerfectScoreBadge = "Quiz Master"

// StartQuest creates the progress row for (quest, student), or returns the
// existing one. Starting twice never creates a second row.
func StartQuest(db *gorm.DB, userID, questID uint) (*models.QuestProgress, bool, error) {
	var quest models.Quest
	err := db.Where("id = ? AND published = ? AND active = ?", questID, true, true).First(&quest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrQuestNotFound
		}
		return nil, false, err
	}

	var existing models.QuestProgress
	err = db.Where("quest_id = ? AND user_id = ?", questID, userID).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	progress := models.QuestProgress{
		QuestID: questID,
		UserID:  userID,
		Status:  models.ProgressInProgress,
	}
	if err := db.Create(&progress).Error; err != nil {
		return nil, false, err
	}
	return &progress, true, nil
}

// CompletionResult bundles everything a completion produced.
type CompletionResult struct {
	Progress *models.QuestProgress `json:"progress"`
	Award    *AwardResult          `json:"award"`
}

// CompleteQuest marks the quest completed for the student and awards the
// quest's XP in the same transaction. Completion is terminal: a second
// completion fails with ErrAlreadyCompleted and awards nothing.
func CompleteQuest(db *gorm.DB, userID, questID uint, score *int) (*CompletionResult, error) {
	if score != nil && (*score < 0 || *score > 100) {
		return nil, ErrInvalidScore
	}

	var quest models.Quest
	err := db.Where("id = ? AND published = ? AND active = ?", questID, true, true).First(&quest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestNotFound
		}
		return nil, err
	}

	var result CompletionResult
	err = db.Transaction(func(tx *gorm.DB) error {
		var progress models.QuestProgress
		err := tx.Where("quest_id = ? AND user_id = ?", questID, userID).First(&progress).Error
		switch {
		case err == nil:
			if progress.Status == models.ProgressCompleted {
				return ErrAlreadyCompleted
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// completing without an explicit start still keeps one row per pair
			progress = models.QuestProgress{QuestID: questID, UserID: userID, Status: models.ProgressInProgress}
			if err := tx.Create(&progress).Error; err != nil {
				return err
			}
		default:
			return err
		}

		now := time.Now()
		progress.Status = models.ProgressCompleted
		progress.Score = score
		progress.CompletedAt = &now
		if err := tx.Save(&progress).Error; err != nil {
			return err
		}

		award, err := awardXP(tx, userID, quest.XPReward)
		if err != nil {
			return err
		}
		result.Progress = &progress
		result.Award = award
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
