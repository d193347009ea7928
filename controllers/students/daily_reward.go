package students

import (
	"errors"
	"log"
	"net/http"

	"github.com/miko1qq/colink-sub000/database"
	"github.com/miko1qq/colink-sub000/gamify"
	"github.com/miko1qq/colink-sub000/utils"
)

// POST /v1/daily-reward/claim
func ClaimDailyRewardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB

	result, err := gamify.ClaimDailyReward(db, userID)
	if err != nil {
		switch {
		case errors.Is(err, gamify.ErrAlreadyClaimed):
			status, serr := gamify.GetDailyStatus(db, userID)
			data := map[string]interface{}{"already_claimed": true}
			if serr == nil {
				data["current_streak"] = status.CurrentStreak
			}
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{
				Success: false,
				Message: "Daily reward already claimed today",
				Data:    data,
			})
		case errors.Is(err, gamify.ErrUserNotFound):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Account not found"})
		default:
			log.Printf("[daily] claim for user %d: %v", userID, err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		}
		return
	}

	newBadges, err := gamify.CheckAndAwardBadges(db, userID, result.Award.XP)
	if err != nil {
		log.Printf("[daily] badge scan for user %d: %v", userID, err)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Daily reward claimed",
		Data: map[string]interface{}{
			"streak":     result.Streak,
			"reward":     result.Reward,
			"award":      result.Award,
			"new_badges": newBadges,
		},
	})
}

// GET /v1/daily-reward
func DailyRewardStatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	status, err := gamify.GetDailyStatus(database.DB, userID)
	if err != nil {
		log.Printf("[daily] status for user %d: %v", userID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Daily reward status",
		Data:    status,
	})
}
