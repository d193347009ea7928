package gamify

import (
	"errors"
	"testing"

	"github.com/miko1qq/colink-sub000/models"
)

func TestAwardXP_AccumulatesAndLevels(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)

	res, err := AwardXP(db, user.ID, 150)
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if res.XP != 150 || res.Level != 1 || res.LeveledUp {
		t.Fatalf("unexpected result after first award: %+v", res)
	}

	// second award of the same amount accumulates, it is not a set operation
	res, err = AwardXP(db, user.ID, 150)
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if res.XP != 300 || res.Level != 2 || !res.LeveledUp {
		t.Fatalf("unexpected result after second award: %+v", res)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.XP != 300 || stored.Level != 2 {
		t.Fatalf("persisted state xp=%d level=%d, want 300/2", stored.XP, stored.Level)
	}
}

func TestAwardXP_LevelUpAtQuantum(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 900)

	res, err := AwardXP(db, user.ID, 150)
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	if res.XP != 1050 || res.Level != 5 || !res.LeveledUp {
		t.Fatalf("expected level-up to 5 at 1050 XP, got %+v", res)
	}
}

func TestAwardXP_RejectsNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 100)

	for _, amount := range []int{0, -5} {
		if _, err := AwardXP(db, user.ID, amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("AwardXP(%d) error = %v, want ErrInvalidAmount", amount, err)
		}
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.XP != 100 {
		t.Fatalf("xp changed on rejected award: %d", stored.XP)
	}
}

func TestAwardXP_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	if _, err := AwardXP(db, 12345, 10); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}
}
