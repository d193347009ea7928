package gamify

import (
	"testing"

	"github.com/miko1qq/colink-sub000/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	// single connection so the in-memory database is shared across queries
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Quest{},
		&models.QuestProgress{},
		&models.Badge{},
		&models.UserBadge{},
		&models.DailyRewardClaim{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, xp int) *models.User {
	t.Helper()
	user := models.User{
		Name:     "Test Student",
		Email:    "student@example.edu",
		Password: "x",
		Role:     models.RoleStudent,
		XP:       xp,
		Level:    LevelForXP(xp),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createQuest(t *testing.T, db *gorm.DB, reward int) *models.Quest {
	t.Helper()
	quest := models.Quest{
		Title:     "Intro Quiz",
		XPReward:  reward,
		Published: true,
		Active:    true,
		CreatedBy: 999,
	}
	if err := db.Create(&quest).Error; err != nil {
		t.Fatalf("create quest: %v", err)
	}
	return &quest
}

func createBadge(t *testing.T, db *gorm.DB, name string, threshold int) *models.Badge {
	t.Helper()
	badge := models.Badge{Name: name, XPThreshold: threshold, Tier: models.TierBronze}
	if err := db.Create(&badge).Error; err != nil {
		t.Fatalf("create badge %s: %v", name, err)
	}
	return &badge
}

func countUserBadges(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.UserBadge{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		t.Fatalf("count user badges: %v", err)
	}
	return n
}
