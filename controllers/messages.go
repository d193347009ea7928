package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/miko1qq/colink-sub000/database"
	"github.com/miko1qq/colink-sub000/middleware"
	"github.com/miko1qq/colink-sub000/models"
	"github.com/miko1qq/colink-sub000/utils"
)

const maxMessageLength = 4000

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" validate:"required"`
	Body       string `json:"body" validate:"required"`
}

// POST /v1/messages
func SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	senderID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req SendMessageRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" || len(req.Body) > maxMessageLength {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Message body must be 1-4000 characters"})
		return
	}
	if req.ReceiverID == senderID {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "You cannot message yourself"})
		return
	}

	db := database.DB

	var receiver models.User
	if err := db.First(&receiver, req.ReceiverID).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Recipient not found"})
		return
	}

	msg := models.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Body:       req.Body,
	}
	if err := db.Create(&msg).Error; err != nil {
		log.Printf("[messages] send from %d to %d: %v", senderID, req.ReceiverID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to send message"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Message sent",
		Data:    map[string]interface{}{"message": msg},
	})
}

// GET /v1/messages/{userID} returns the two-way conversation with another
// user, newest last. Clients poll this endpoint; there is no push channel.
func ConversationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	raw := mux.Vars(r)["userID"]
	otherID64, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || otherID64 == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user id"})
		return
	}
	otherID := uint(otherID64)

	limit := 50
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		if n, err := strconv.Atoi(rawLimit); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	db := database.DB

	var msgs []models.Message
	if err := db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userID, otherID, otherID, userID,
	).Order("created_at DESC").Limit(limit).Find(&msgs).Error; err != nil {
		log.Printf("[messages] conversation %d<->%d: %v", userID, otherID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	// Reverse into chronological order for display.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Conversation retrieved",
		Data:    map[string]interface{}{"messages": msgs},
	})
}

// POST /v1/messages/{userID}/read marks everything the other user sent to the
// caller as read. Read is one-way: a read message never becomes unread again.
func MarkConversationReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	raw := mux.Vars(r)["userID"]
	otherID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || otherID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user id"})
		return
	}

	res := database.DB.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", otherID, userID, false).
		Update("is_read", true)
	if res.Error != nil {
		log.Printf("[messages] mark read %d<-%d: %v", userID, otherID, res.Error)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Conversation marked as read",
		Data:    map[string]interface{}{"updated": res.RowsAffected},
	})
}

// GET /v1/messages/unread-count
func UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var count int64
	if err := database.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		log.Printf("[messages] unread count for %d: %v", userID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Unread count retrieved",
		Data:    map[string]interface{}{"unread": count},
	})
}
