package professors

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/miko1qq/colink-sub000/database"
	"github.com/miko1qq/colink-sub000/middleware"
	"github.com/miko1qq/colink-sub000/models"
	"github.com/miko1qq/colink-sub000/utils"
)

const maxQuestXPReward = 1000

type QuestRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	XPReward    int        `json:"xp_reward" validate:"required"`
	Published   bool       `json:"published"`
	Deadline    *time.Time `json:"deadline"`
}

func validateQuestPayload(w http.ResponseWriter, req *QuestRequest) bool {
	req.Title = strings.TrimSpace(req.Title)
	if len(req.Title) < 3 || len(req.Title) > 150 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Title must be 3-150 characters"})
		return false
	}
	if req.XPReward <= 0 || req.XPReward > maxQuestXPReward {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "XP reward must be between 1 and 1000"})
		return false
	}
	if req.Deadline != nil && req.Deadline.Before(time.Now()) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Deadline must be in the future"})
		return false
	}
	return true
}

// POST /v1/professor/quests
func CreateQuestHandler(w http.ResponseWriter, r *http.Request) {
	professorID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req QuestRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if !validateQuestPayload(w, &req) {
		return
	}

	quest := models.Quest{
		Title:       req.Title,
		Description: req.Description,
		XPReward:    req.XPReward,
		Published:   req.Published,
		Deadline:    req.Deadline,
		CreatedBy:   professorID,
		Active:      true,
	}
	if err := database.DB.Create(&quest).Error; err != nil {
		log.Printf("[quests] create by professor %d: %v", professorID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create quest"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Quest created",
		Data:    map[string]interface{}{"quest": quest},
	})
}

// PUT /v1/professor/quests/{id}
func UpdateQuestHandler(w http.ResponseWriter, r *http.Request) {
	professorID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	questID, err := questPathID(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid quest id"})
		return
	}

	var req QuestRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if !validateQuestPayload(w, &req) {
		return
	}

	db := database.DB

	quest, ok := ownedQuest(w, db, questID, professorID)
	if !ok {
		return
	}

	quest.Title = req.Title
	quest.Description = req.Description
	quest.XPReward = req.XPReward
	quest.Published = req.Published
	quest.Deadline = req.Deadline
	if err := db.Save(quest).Error; err != nil {
		log.Printf("[quests] update %d by professor %d: %v", questID, professorID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update quest"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Quest updated",
		Data:    map[string]interface{}{"quest": quest},
	})
}

// DELETE /v1/professor/quests/{id} deactivates the quest. Earned progress and
// XP stay untouched; the quest just stops being listed or completable.
func DeleteQuestHandler(w http.ResponseWriter, r *http.Request) {
	professorID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	questID, err := questPathID(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid quest id"})
		return
	}

	db := database.DB

	quest, ok := ownedQuest(w, db, questID, professorID)
	if !ok {
		return
	}

	if err := db.Model(quest).Update("active", false).Error; err != nil {
		log.Printf("[quests] delete %d by professor %d: %v", questID, professorID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to delete quest"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Quest deleted"})
}

// GET /v1/professor/quests lists the professor's own quests, drafts included.
func ListOwnQuestsHandler(w http.ResponseWriter, r *http.Request) {
	professorID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var quests []models.Quest
	if err := database.DB.Where("created_by = ? AND active = ?", professorID, true).
		Order("created_at DESC").Find(&quests).Error; err != nil {
		log.Printf("[quests] list for professor %d: %v", professorID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Quests retrieved",
		Data:    map[string]interface{}{"quests": quests},
	})
}

func questPathID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}

// ownedQuest loads an active quest and enforces that the professor authored
// it. Writes the error response itself when the check fails.
func ownedQuest(w http.ResponseWriter, db *gorm.DB, questID, professorID uint) (*models.Quest, bool) {
	var quest models.Quest
	if err := db.Where("id = ? AND active = ?", questID, true).First(&quest).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Quest not found"})
		return nil, false
	}
	if quest.CreatedBy != professorID {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "You can only manage your own quests"})
		return nil, false
	}
	return &quest, true
}
