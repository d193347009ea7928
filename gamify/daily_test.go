package gamify

import (
	"errors"
	"testing"
	"time"

	"github.com/miko1qq/colink-sub000/models"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts
}

func TestClaimDailyReward_FirstClaim(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)

	res, err := claimDailyRewardAt(db, user.ID, day(t, "2026-03-01 09:00"))
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if res.Streak != 1 || res.Reward != 50 {
		t.Fatalf("first claim streak=%d reward=%d, want 1/50", res.Streak, res.Reward)
	}
	if res.Award.XP != 50 {
		t.Fatalf("awarded xp = %d, want 50", res.Award.XP)
	}
}

func TestClaimDailyReward_ConsecutiveDaysIncrement(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)

	dates := []string{"2026-03-01 09:00", "2026-03-02 22:30", "2026-03-03 00:10"}
	for i, d := range dates {
		res, err := claimDailyRewardAt(db, user.ID, day(t, d))
		if err != nil {
			t.Fatalf("claim %s: %v", d, err)
		}
		wantStreak := i + 1
		if res.Streak != wantStreak {
			t.Fatalf("claim %s streak = %d, want %d", d, res.Streak, wantStreak)
		}
		if res.Reward != DailyRewardXP(wantStreak) {
			t.Fatalf("claim %s reward = %d, want %d", d, res.Reward, DailyRewardXP(wantStreak))
		}
	}
}

// A duplicate row slipping past the pre-check (two claims racing) hits the
// unique (user_id, claim_date) index; that violation must come back as
// ErrAlreadyClaimed, not a bare DB error.
func TestClaimDailyReward_RacingDuplicateMapsToAlreadyClaimed(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)

	when := day(t, "2026-03-01 09:00")
	if _, err := claimDailyRewardAt(db, user.ID, when); err != nil {
		t.Fatalf("claim: %v", err)
	}

	// the losing side of the race: the insert itself, bypassing the pre-check
	dup := models.DailyRewardClaim{
		UserID:    user.ID,
		ClaimDate: when.Format(claimDateLayout),
		Streak:    1,
		XPAwarded: 50,
		ClaimedAt: when,
	}
	err := db.Create(&dup).Error
	if err == nil {
		t.Fatal("expected unique index violation for duplicate claim day")
	}
	if !isDuplicateKey(err) {
		t.Fatalf("duplicate claim error not recognized: %v", err)
	}
}

func TestClaimDailyReward_GapResetsStreak(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)

	if _, err := claimDailyRewardAt(db, user.ID, day(t, "2026-03-01 09:00")); err != nil {
		t.Fatalf("claim day 1: %v", err)
	}
	if _, err := claimDailyRewardAt(db, user.ID, day(t, "2026-03-02 09:00")); err != nil {
		t.Fatalf("claim day 2: %v", err)
	}

	// skipped 2026-03-03
	res, err := claimDailyRewardAt(db, user.ID, day(t, "2026-03-04 09:00"))
	if err != nil {
		t.Fatalf("claim after gap: %v", err)
	}
	if res.Streak != 1 || res.Reward != 50 {
		t.Fatalf("after gap streak=%d reward=%d, want 1/50", res.Streak, res.Reward)
	}
}

func TestClaimDailyReward_SameDayRejected(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)

	if _, err := claimDailyRewardAt(db, user.ID, day(t, "2026-03-01 09:00")); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	_, err := claimDailyRewardAt(db, user.ID, day(t, "2026-03-01 23:59"))
	if !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("error = %v, want ErrAlreadyClaimed", err)
	}

	// no XP on rejection
	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.XP != 50 {
		t.Fatalf("xp = %d after rejected claim, want 50", stored.XP)
	}
}

func TestClaimDailyReward_StreakCapApplied(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)

	// streak 3 recorded yesterday, so this claim is streak 4: 50 + 3*10 = 80
	seed := models.DailyRewardClaim{
		UserID: user.ID, ClaimDate: "2026-03-09", Streak: 3, XPAwarded: 70,
		ClaimedAt: day(t, "2026-03-09 08:00"),
	}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed claim: %v", err)
	}
	res, err := claimDailyRewardAt(db, user.ID, day(t, "2026-03-10 08:00"))
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if res.Streak != 4 || res.Reward != 80 {
		t.Fatalf("streak=%d reward=%d, want 4/80", res.Streak, res.Reward)
	}

	// deep streak hits the cap
	db2 := newTestDB(t)
	user2 := createUser(t, db2, 0)
	seed2 := models.DailyRewardClaim{
		UserID: user2.ID, ClaimDate: "2026-03-09", Streak: 20, XPAwarded: 150,
		ClaimedAt: day(t, "2026-03-09 08:00"),
	}
	if err := db2.Create(&seed2).Error; err != nil {
		t.Fatalf("seed claim: %v", err)
	}
	res, err = claimDailyRewardAt(db2, user2.ID, day(t, "2026-03-10 08:00"))
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if res.Streak != 21 || res.Reward != DailyRewardCap {
		t.Fatalf("streak=%d reward=%d, want 21/%d", res.Streak, res.Reward, DailyRewardCap)
	}
}

func TestClaimDailyReward_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	if _, err := claimDailyRewardAt(db, 4242, day(t, "2026-03-01 09:00")); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}
}

func TestGetDailyStatus(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, 0)
	now := day(t, "2026-03-02 10:00")

	status, err := getDailyStatusAt(db, user.ID, now)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.ClaimedToday || status.CurrentStreak != 0 || status.NextReward != 50 {
		t.Fatalf("fresh status unexpected: %+v", status)
	}

	if _, err := claimDailyRewardAt(db, user.ID, now); err != nil {
		t.Fatalf("claim: %v", err)
	}
	status, err = getDailyStatusAt(db, user.ID, now)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.ClaimedToday || status.CurrentStreak != 1 || status.NextReward != 60 {
		t.Fatalf("post-claim status unexpected: %+v", status)
	}

	// next morning the streak is still alive but unclaimed
	status, err = getDailyStatusAt(db, user.ID, day(t, "2026-03-03 07:00"))
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.ClaimedToday || status.CurrentStreak != 1 || status.NextReward != 60 {
		t.Fatalf("next-day status unexpected: %+v", status)
	}
}
