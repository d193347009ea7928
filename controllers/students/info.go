package students

import (
	"log"
	"net/http"

	"github.com/miko1qq/colink-sub000/database"
	"github.com/miko1qq/colink-sub000/gamify"
	"github.com/miko1qq/colink-sub000/models"
	"github.com/miko1qq/colink-sub000/utils"
)

// GET /v1/me returns the caller's profile with gamification state: XP, level,
// progress to the next level, leaderboard rank and earned badges.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Account not found"})
		return
	}

	// Rank = 1 + number of users strictly ahead on XP.
	var ahead int64
	if err := db.Model(&models.User{}).
		Where("role = ? AND xp > ?", models.RoleStudent, user.XP).
		Count(&ahead).Error; err != nil {
		log.Printf("[me] rank query for user %d: %v", userID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var earned []models.UserBadge
	if err := db.Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at ASC").Find(&earned).Error; err != nil {
		log.Printf("[me] badges query for user %d: %v", userID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	intoLevel := user.XP % gamify.LevelXPQuantum

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Profile retrieved",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"id":     user.ID,
				"name":   user.Name,
				"email":  user.Email,
				"role":   user.Role,
				"avatar": user.Avatar,
			},
			"xp":               user.XP,
			"level":            user.Level,
			"xp_into_level":    intoLevel,
			"xp_to_next_level": gamify.LevelXPQuantum - intoLevel,
			"rank":             ahead + 1,
			"badges":           earned,
		},
	})
}
