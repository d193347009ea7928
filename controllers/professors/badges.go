package professors

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

type GrantBadgeRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
	BadgeID   uint `json:"badge_id" validate:"required"`
}

// POST /v1/professor/badges/grant hands out an event badge (one with no XP
// threshold) to a student. Threshold badges are earned through XP only.
func GrantBadgeHandler(w http.ResponseWriter, r *http.Request) {
	professorID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req GrantBadgeRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	db := database.DB

	var student models.User
	if err := db.Where("id = ? AND role = ?", req.StudentID, models.RoleStudent).
		First(&student).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Student not found"})
		return
	}

	granted, err := gamify.AwardEventBadge(db, req.StudentID, req.BadgeID)
	if err != nil {
		switch {
		case errors.Is(err, gamify.ErrBadgeNotFound):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Badge not found"})
		case errors.Is(err, gamify.ErrNotEventBadge):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Only event badges can be granted manually"})
		default:
			log.Printf("[badges] grant %d to student %d by professor %d: %v", req.BadgeID, req.StudentID, professorID, err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		}
		return
	}

	if !granted {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{
			Success: false,
			Message: "Student already holds this badge",
			Data:    map[string]interface{}{"already_granted": true},
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Badge granted"})
}

// GET /v1/badges lists the badge catalog.
func ListBadgesHandler(w http.ResponseWriter, r *http.Request) {
	var badges []models.Badge
	if err := database.DB.Order("xp_threshold ASC, name ASC").Find(&badges).Error; err != nil {
		log.Printf("[badges] list: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Badges retrieved",
		Data:    map[string]interface{}{"badges": badges},
	})
}
