package database

import (
	"errors"
	"time"

	"github.com/miko1qq/colink-sub000/models"

	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for every table the API owns. Only called in
// development; production schema changes go through reviewed SQL.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Quest{},
		&models.QuestProgress{},
		&models.Badge{},
		&models.UserBadge{},
		&models.DailyRewardClaim{},
		&models.Message{},
	)
}

// defaultBadges is the seed catalog. Threshold badges unlock by total XP;
// the threshold-0 entries are event badges granted by explicit calls only.
var defaultBadges = []models.Badge{
	{Name: "First Steps", Description: "Earn your first 50 XP", Icon: "badges/first-steps.png", XPThreshold: 50, Tier: models.TierBronze},
	{Name: "Rising Star", Description: "Reach 250 XP", Icon: "badges/rising-star.png", XPThreshold: 250, Tier: models.TierBronze},
	{Name: "Scholar", Description: "Reach 1000 XP", Icon: "badges/scholar.png", XPThreshold: 1000, Tier: models.TierSilver},
	{Name: "Sage", Description: "Reach 2500 XP", Icon: "badges/sage.png", XPThreshold: 2500, Tier: models.TierGold},
	{Name: "Legend", Description: "Reach 5000 XP", Icon: "badges/legend.png", XPThreshold: 5000, Tier: models.TierPlatinum},
	{Name: "Quiz Master", Description: "Score a perfect 100 on a quest", Icon: "badges/quiz-master.png", XPThreshold: 0, Tier: models.TierGold},
	{Name: "Early Bird", Description: "Awarded by your professor for outstanding participation", Icon: "badges/early-bird.png", XPThreshold: 0, Tier: models.TierSilver},
}

// SeedBadges inserts any missing default badges by name. Existing rows are
// left untouched so deployments can adjust descriptions and icons.
func SeedBadges(db *gorm.DB) error {
	for _, badge := range defaultBadges {
		var existing models.Badge
		err := db.Where("name = ?", badge.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		badge.CreatedAt = time.Now()
		if err := db.Create(&badge).Error; err != nil {
			return err
		}
	}
	return nil
}
