package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/miko1qq/colink-sub000/database"
	"github.com/miko1qq/colink-sub000/models"
	"github.com/miko1qq/colink-sub000/utils"
)

type leaderboardEntry struct {
	Rank   int     `json:"rank"`
	UserID uint    `json:"user_id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
	XP     int     `json:"xp"`
	Level  int     `json:"level"`
}

// GET /v1/leaderboard returns the top students by XP plus the caller's own
// rank, so a student outside the top still sees where they stand.
func LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	db := database.DB

	var top []models.User
	if err := db.Where("role = ?", models.RoleStudent).
		Order("xp DESC, id ASC").Limit(limit).Find(&top).Error; err != nil {
		log.Printf("[leaderboard] top query: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	entries := make([]leaderboardEntry, 0, len(top))
	for i, u := range top {
		entries = append(entries, leaderboardEntry{
			Rank:   i + 1,
			UserID: u.ID,
			Name:   u.Name,
			Avatar: u.Avatar,
			XP:     u.XP,
			Level:  u.Level,
		})
	}

	data := map[string]interface{}{"leaderboard": entries}

	var me models.User
	if err := db.First(&me, userID).Error; err == nil && me.Role == models.RoleStudent {
		var ahead int64
		if err := db.Model(&models.User{}).
			Where("role = ? AND xp > ?", models.RoleStudent, me.XP).
			Count(&ahead).Error; err != nil {
			log.Printf("[leaderboard] rank query for %d: %v", userID, err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
			return
		}
		data["me"] = leaderboardEntry{
			Rank:   int(ahead) + 1,
			UserID: me.ID,
			Name:   me.Name,
			Avatar: me.Avatar,
			XP:     me.XP,
			Level:  me.Level,
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Leaderboard retrieved",
		Data:    data,
	})
}
