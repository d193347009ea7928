package gamify

import (
	"errors"
	"testing"
)

func TestCheckAndAwardBadges_ThresholdBoundary(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)
	createBadge(t, db, "First Steps", 50)

	// below threshold: nothing granted
	granted, err := CheckAndAwardBadges(db, user.ID, 49)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(granted) != 0 {
		t.Fatalf("granted %d badges below threshold", len(granted))
	}

	// exactly at threshold: granted
	granted, err = CheckAndAwardBadges(db, user.ID, 50)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(granted) != 1 || granted[0].Name != "First Steps" {
		t.Fatalf("expected First Steps at threshold, got %+v", granted)
	}
}

func TestCheckAndAwardBadges_Idempotent(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 300)
	createBadge(t, db, "First Steps", 50)
	createBadge(t, db, "Rising Star", 250)

	granted, err := CheckAndAwardBadges(db, user.ID, 300)
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	if len(granted) != 2 {
		t.Fatalf("first scan granted %d, want 2", len(granted))
	}

	// unchanged XP: second scan is a no-op
	granted, err = CheckAndAwardBadges(db, user.ID, 300)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if len(granted) != 0 {
		t.Fatalf("second scan granted %d, want 0", len(granted))
	}
	if n := countUserBadges(t, db, user.ID); n != 2 {
		t.Fatalf("held badges = %d, want 2", n)
	}
}

func TestCheckAndAwardBadges_MultipleInOneJump(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 10)
	createBadge(t, db, "First Steps", 50)
	createBadge(t, db, "Rising Star", 250)

	// a single award from 10 to 260 crosses both thresholds
	res, err := AwardXP(db, user.ID, 250)
	if err != nil {
		t.Fatalf("AwardXP: %v", err)
	}
	granted, err := CheckAndAwardBadges(db, user.ID, res.XP)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(granted) != 2 {
		t.Fatalf("granted %d badges, want 2", len(granted))
	}
	if n := countUserBadges(t, db, user.ID); n != 2 {
		t.Fatalf("held badges = %d, want 2 (each exactly once)", n)
	}
}

func TestCheckAndAwardBadges_SkipsEventBadges(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 1000)
	event := createBadge(t, db, "Quiz Master", 0)

	granted, err := CheckAndAwardBadges(db, user.ID, 1000)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	for _, b := range granted {
		if b.ID == event.ID {
			t.Fatalf("threshold scan granted event badge %q", b.Name)
		}
	}
}

func TestAwardEventBadge_GrantsOnce(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)
	event := createBadge(t, db, "Quiz Master", 0)

	granted, err := AwardEventBadge(db, user.ID, event.ID)
	if err != nil || !granted {
		t.Fatalf("first grant: granted=%v err=%v", granted, err)
	}
	granted, err = AwardEventBadge(db, user.ID, event.ID)
	if err != nil {
		t.Fatalf("second grant: %v", err)
	}
	if granted {
		t.Fatalf("second grant reported a new award")
	}
	if n := countUserBadges(t, db, user.ID); n != 1 {
		t.Fatalf("held badges = %d, want 1", n)
	}
}

func TestAwardEventBadge_RejectsThresholdBadge(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)
	badge := createBadge(t, db, "Rising Star", 250)

	if _, err := AwardEventBadge(db, user.ID, badge.ID); !errors.Is(err, ErrNotEventBadge) {
		t.Fatalf("error = %v, want ErrNotEventBadge", err)
	}
}

func TestAwardEventBadge_UnknownBadge(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)

	if _, err := AwardEventBadge(db, user.ID, 777); !errors.Is(err, ErrBadgeNotFound) {
		t.Fatalf("error = %v, want ErrBadgeNotFound", err)
	}
}
