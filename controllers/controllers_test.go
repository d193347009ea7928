package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/miko1qq/colink-sub000/database"
	"github.com/miko1qq/colink-sub000/models"
	"github.com/miko1qq/colink-sub000/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package-global connection at an in-memory database
// for the duration of one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}, &models.Message{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, name string, xp int) *models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.edu", name),
		Password: "x",
		Role:     models.RoleStudent,
		XP:       xp,
		Level:    xp/250 + 1,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return &user
}

// authedRequest builds a request carrying the identity the auth middleware
// would have injected.
func authedRequest(method, target string, userID uint, role models.Role) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), utils.UserIDKey, userID)
	ctx = context.WithValue(ctx, utils.UserRoleKey, role)
	return req.WithContext(ctx)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestLeaderboardHandler_OrdersByXP(t *testing.T) {
	db := setupTestDB(t)
	low := seedStudent(t, db, "low", 100)
	high := seedStudent(t, db, "high", 900)
	mid := seedStudent(t, db, "mid", 400)

	rec := httptest.NewRecorder()
	LeaderboardHandler(rec, authedRequest(http.MethodGet, "/v1/leaderboard", low.ID, models.RoleStudent))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	entries := data["leaderboard"].([]interface{})
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	first := entries[0].(map[string]interface{})
	second := entries[1].(map[string]interface{})
	if uint(first["user_id"].(float64)) != high.ID {
		t.Errorf("rank 1 = user %v, want %d", first["user_id"], high.ID)
	}
	if uint(second["user_id"].(float64)) != mid.ID {
		t.Errorf("rank 2 = user %v, want %d", second["user_id"], mid.ID)
	}

	me := data["me"].(map[string]interface{})
	if int(me["rank"].(float64)) != 3 {
		t.Errorf("caller rank = %v, want 3", me["rank"])
	}
}

func TestLeaderboardHandler_Unauthenticated(t *testing.T) {
	setupTestDB(t)

	rec := httptest.NewRecorder()
	LeaderboardHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/leaderboard", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestUnreadCountHandler(t *testing.T) {
	db := setupTestDB(t)
	alice := seedStudent(t, db, "alice", 0)
	bob := seedStudent(t, db, "bob", 0)

	msgs := []models.Message{
		{SenderID: bob.ID, ReceiverID: alice.ID, Body: "hi"},
		{SenderID: bob.ID, ReceiverID: alice.ID, Body: "still there?"},
		{SenderID: bob.ID, ReceiverID: alice.ID, Body: "old one", Read: true},
		{SenderID: alice.ID, ReceiverID: bob.ID, Body: "sent, not received"},
	}
	for i := range msgs {
		if err := db.Create(&msgs[i]).Error; err != nil {
			t.Fatalf("create message: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	UnreadCountHandler(rec, authedRequest(http.MethodGet, "/v1/messages/unread-count", alice.ID, models.RoleStudent))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	if got := int(data["unread"].(float64)); got != 2 {
		t.Errorf("unread = %d, want 2", got)
	}
}

func TestMarkConversationRead_OneWay(t *testing.T) {
	db := setupTestDB(t)
	alice := seedStudent(t, db, "alice", 0)
	bob := seedStudent(t, db, "bob", 0)

	msg := models.Message{SenderID: bob.ID, ReceiverID: alice.ID, Body: "hi"}
	if err := db.Create(&msg).Error; err != nil {
		t.Fatalf("create message: %v", err)
	}

	markRead := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, fmt.Sprintf("/v1/messages/%d/read", bob.ID), alice.ID, models.RoleStudent)
		req = mux.SetURLVars(req, map[string]string{"userID": fmt.Sprint(bob.ID)})
		MarkConversationReadHandler(rec, req)
		return rec
	}

	if rec := markRead(); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got models.Message
	if err := db.First(&got, msg.ID).Error; err != nil {
		t.Fatalf("reload message: %v", err)
	}
	if !got.Read {
		t.Fatal("message not marked read")
	}

	// Second call is a no-op and never flips the flag back.
	rec := markRead()
	if rec.Code != http.StatusOK {
		t.Fatalf("second call status = %d, want 200", rec.Code)
	}
	data := decodeResponse(t, rec).Data.(map[string]interface{})
	if updated := int(data["updated"].(float64)); updated != 0 {
		t.Errorf("second call updated %d rows, want 0", updated)
	}
	if err := db.First(&got, msg.ID).Error; err != nil || !got.Read {
		t.Fatal("read flag must stay set")
	}
}
