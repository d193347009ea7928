package professors

import (
	"log"
	"net/http"
	"time"

	"github.com/miko1qq/colink-sub000/database"
	"github.com/miko1qq/colink-sub000/models"
	"github.com/miko1qq/colink-sub000/utils"
)

type questStats struct {
	QuestID        uint     `json:"quest_id"`
	Title          string   `json:"title"`
	Published      bool     `json:"published"`
	Started        int64    `json:"started"`
	Completed      int64    `json:"completed"`
	CompletionRate float64  `json:"completion_rate"`
	AverageScore   *float64 `json:"average_score,omitempty"`
}

// GET /v1/professor/analytics summarizes the professor's quests: how many
// students started and finished each one, the completion rate and the average
// submitted score.
func AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	professorID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB

	var quests []models.Quest
	if err := db.Where("created_by = ? AND active = ?", professorID, true).
		Order("created_at DESC").Find(&quests).Error; err != nil {
		log.Printf("[analytics] quests for professor %d: %v", professorID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	stats := make([]questStats, 0, len(quests))
	var totalStarted, totalCompleted int64
	for _, q := range quests {
		s := questStats{QuestID: q.ID, Title: q.Title, Published: q.Published}

		if err := db.Model(&models.QuestProgress{}).
			Where("quest_id = ?", q.ID).Count(&s.Started).Error; err != nil {
			log.Printf("[analytics] started count quest %d: %v", q.ID, err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
			return
		}
		if err := db.Model(&models.QuestProgress{}).
			Where("quest_id = ? AND status = ?", q.ID, models.ProgressCompleted).
			Count(&s.Completed).Error; err != nil {
			log.Printf("[analytics] completed count quest %d: %v", q.ID, err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
			return
		}
		s.CompletionRate = utils.Percentage(s.Completed, s.Started)

		var avg *float64
		row := db.Model(&models.QuestProgress{}).
			Where("quest_id = ? AND status = ? AND score IS NOT NULL", q.ID, models.ProgressCompleted).
			Select("AVG(score)").Row()
		if row != nil {
			if err := row.Scan(&avg); err == nil && avg != nil {
				rounded := utils.RoundFloat(*avg, 1)
				s.AverageScore = &rounded
			}
		}

		totalStarted += s.Started
		totalCompleted += s.Completed
		stats = append(stats, s)
	}

	// Engagement: distinct students with any progress activity in the last
	// 7 days on this professor's quests, as a share of all students.
	since := time.Now().AddDate(0, 0, -7)
	var activeStudents int64
	if err := db.Model(&models.QuestProgress{}).
		Joins("JOIN quests ON quests.id = quest_progress.quest_id").
		Where("quests.created_by = ? AND quest_progress.updated_at >= ?", professorID, since).
		Distinct("quest_progress.user_id").
		Count(&activeStudents).Error; err != nil {
		log.Printf("[analytics] engagement for professor %d: %v", professorID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	var totalStudents int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleStudent).
		Count(&totalStudents).Error; err != nil {
		log.Printf("[analytics] student count: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Analytics retrieved",
		Data: map[string]interface{}{
			"quests":                  stats,
			"total_started":           totalStarted,
			"total_completed":         totalCompleted,
			"overall_completion_rate": utils.Percentage(totalCompleted, totalStarted),
			"active_students_7d":      activeStudents,
			"total_students":          totalStudents,
			"engagement_rate":         utils.Percentage(activeStudents, totalStudents),
		},
	})
}
