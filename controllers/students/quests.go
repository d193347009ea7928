package students

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/miko1qq/colink-sub000/database"
	"github.com/miko1qq/colink-sub000/models"
	"github.com/miko1qq/colink-sub000/utils"
)

type questView struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	XPReward    int        `json:"xp_reward"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Expired     bool       `json:"expired"`
	Status      string     `json:"status"`
	Score       *int       `json:"score,omitempty"`
}

// GET /v1/quests lists published quests with the caller's progress attached.
func ListQuestsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB

	var quests []models.Quest
	if err := db.Where("published = ? AND active = ?", true, true).
		Order("created_at DESC").Find(&quests).Error; err != nil {
		log.Printf("[quests] DB error listing quests: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var rows []models.QuestProgress
	if err := db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		log.Printf("[quests] DB error loading progress: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	progressMap := make(map[uint]models.QuestProgress, len(rows))
	for _, p := range rows {
		progressMap[p.QuestID] = p
	}

	now := time.Now()
	out := make([]questView, 0, len(quests))
	for _, q := range quests {
		v := questView{
			ID:          q.ID,
			Title:       q.Title,
			Description: q.Description,
			XPReward:    q.XPReward,
			Deadline:    q.Deadline,
			Expired:     q.Deadline != nil && now.After(*q.Deadline),
			Status:      string(models.ProgressNotStarted),
		}
		if p, ok := progressMap[q.ID]; ok {
			v.Status = string(p.Status)
			v.Score = p.Score
		}
		out = append(out, v)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Quests retrieved",
		Data:    map[string]interface{}{"quests": out},
	})
}

// GET /v1/quests/{id}
func GetQuestHandler(w http.ResponseWriter, r *http.Request) {
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

	db := database.DB

	var quest models.Quest
	if err := db.Where("id = ? AND published = ? AND active = ?", questID, true, true).
		First(&quest).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Quest not found"})
		return
	}

	v := questView{
		ID:          quest.ID,
		Title:       quest.Title,
		Description: quest.Description,
		XPReward:    quest.XPReward,
		Deadline:    quest.Deadline,
		Expired:     quest.Deadline != nil && time.Now().After(*quest.Deadline),
		Status:      string(models.ProgressNotStarted),
	}
	var p models.QuestProgress
	if err := db.Where("quest_id = ? AND user_id = ?", questID, userID).First(&p).Error; err == nil {
		v.Status = string(p.Status)
		v.Score = p.Score
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Quest retrieved",
		Data:    map[string]interface{}{"quest": v},
	})
}

func pathID(r *http.Request, key string) (uint, error) {
	raw := mux.Vars(r)[key]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
