package students

import (
	"errors"
	"log"
	"net/http"

	"github.com/miko1qq/colink-sub000/database"
	"github.com/miko1qq/colink-sub000/gamify"
	"github.com/miko1qq/colink-sub000/middleware"
	"github.com/miko1qq/colink-sub000/models"
	"github.com/miko1qq/colink-sub000/utils"
)

// POST /v1/quests/{id}/start
func StartQuestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	questID, err := pathID(r, "id")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid quest id"})
		return
	}

	progress, created, err := gamify.StartQuest(database.DB, userID, questID)
	if err != nil {
		if errors.Is(err, gamify.ErrQuestNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Quest not found"})
			return
		}
		log.Printf("[progress] start quest %d for user %d: %v", questID, userID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	msg := "Quest started"
	if !created {
		msg = "Quest already in progress"
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: msg,
		Data:    map[string]interface{}{"progress": progress},
	})
}

type CompleteQuestRequest struct {
	Score *int `json:"score"`
}

// POST /v1/quests/{id}/complete marks the quest done, awards its XP and runs
// the badge scan on the new total. A perfect score also grants the event
// badge for it.
func CompleteQuestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	questID, err := pathID(r, "id")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid quest id"})
		return
	}

	// Body is optional: completion without a score is valid.
	var req CompleteQuestRequest
	if r.ContentLength > 0 {
		if err := middleware.ValidateJSON(w, r, &req); err != nil {
			return
		}
	}

	db := database.DB

	result, err := gamify.CompleteQuest(db, userID, questID, req.Score)
	if err != nil {
		switch {
		case errors.Is(err, gamify.ErrQuestNotFound):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Quest not found"})
		case errors.Is(err, gamify.ErrInvalidScore):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Score must be between 0 and 100"})
		case errors.Is(err, gamify.ErrAlreadyCompleted):
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{
				Success: false,
				Message: "Quest already completed",
				Data:    map[string]interface{}{"already_completed": true},
			})
		default:
			log.Printf("[progress] complete quest %d for user %d: %v", questID, userID, err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		}
		return
	}

	newBadges, err := gamify.CheckAndAwardBadges(db, userID, result.Award.XP)
	if err != nil {
		// XP is already persisted; the next scan heals missing badges.
		log.Printf("[progress] badge scan for user %d: %v", userID, err)
	}

	if req.Score != nil && *req.Score == 100 {
		granted, err := gamify.AwardEventBadgeByName(db, userID, gamify.PerfectScoreBadge)
		if err != nil {
			log.Printf("[progress] perfect-score badge for user %d: %v", userID, err)
		} else if granted {
			var b models.Badge
			if err := db.Where("name = ?", gamify.PerfectScoreBadge).First(&b).Error; err == nil {
				newBadges = append(newBadges, b)
			}
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Quest completed",
		Data: map[string]interface{}{
			"progress":   result.Progress,
			"award":      result.Award,
			"new_badges": newBadges,
		},
	})
}

// GET /v1/me/progress
func MyProgressHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var rows []models.QuestProgress
	if err := database.DB.Preload("Quest").
		Where("user_id = ?", userID).
		Order("updated_at DESC").Find(&rows).Error; err != nil {
		log.Printf("[progress] DB error for user %d: %v", userID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	completed := 0
	for _, p := range rows {
		if p.Status == models.ProgressCompleted {
			completed++
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Progress retrieved",
		Data: map[string]interface{}{
			"progress":        rows,
			"completed_count": completed,
		},
	})
}
