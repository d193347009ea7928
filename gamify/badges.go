package gamify

import (
	"errors"
	"log"
	"time"

	"github.com/miko1qq/colink-sub000/models"

	"gorm.io/gorm"
)

// CheckAndAwardBadges grants every threshold badge the user has earned but
// does not yet hold. Event badges (threshold = 0) are never granted here,
// only through AwardEventBadge.
//
// Safe to call repeatedly: already-held badges are skipped, so a re-run after
// a partial failure just picks up whatever is still missing. A failed grant is
// logged and the scan moves on to the remaining badges.
func CheckAndAwardBadges(db *gorm.DB, userID uint, currentXP int) ([]models.Badge, error) {
	var eligible []models.Badge
	if err := db.Where("xp_threshold > 0 AND xp_threshold <= ?", currentXP).
		Order("xp_threshold ASC").
		Find(&eligible).Error; err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	var held []models.UserBadge
	if err := db.Where("user_id = ?", userID).Find(&held).Error; err != nil {
		return nil, err
	}
	heldSet := make(map[uint]bool, len(held))
	for _, ub := range held {
		heldSet[ub.BadgeID] = true
	}

	var granted []models.Badge
	for _, badge := range eligible {
		if heldSet[badge.ID] {
			continue
		}
		grant := models.UserBadge{UserID: userID, BadgeID: badge.ID, EarnedAt: time.Now()}
		if err := db.Create(&grant).Error; err != nil {
			// Do not abort the scan; the next invocation retries this badge.
			log.Printf("[gamify] grant badge %q to user %d failed: %v", badge.Name, userID, err)
			continue
		}
		granted = append(granted, badge)
	}
	return granted, nil
}

// AwardEventBadge grants an event badge (threshold = 0) once. Returns false
// without error when the user already holds it.
func AwardEventBadge(db *gorm.DB, userID uint, badgeID uint) (bool, error) {
	var badge models.Badge
	if err := db.First(&badge, badgeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrBadgeNotFound
		}
		return false, err
	}
	if badge.XPThreshold != 0 {
		return false, ErrNotEventBadge
	}

	var existing models.UserBadge
	err := db.Where("user_id = ? AND badge_id = ?", userID, badgeID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	grant := models.UserBadge{UserID: userID, BadgeID: badgeID, EarnedAt: time.Now()}
	if err := db.Create(&grant).Error; err != nil {
		return false, err
	}
	return true, nil
}

// AwardEventBadgeByName resolves an event badge by its catalog name and
// grants it. Missing badge definitions are not an error for callers that fire
// optional events (e.g. a perfect quiz score on a deployment without the
// badge seeded).
func AwardEventBadgeByName(db *gorm.DB, userID uint, name string) (bool, error) {
	var badge models.Badge
	if err := db.Where("name = ?", name).First(&badge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return AwardEventBadge(db, userID, badge.ID)
}
