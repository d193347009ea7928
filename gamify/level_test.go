package gamify

import "testing"

func TestLevelForXP_Formula(t *testing.T) {
	cases := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{150, 1},
		{249, 1},
		{250, 2},
		{499, 2},
		{500, 3},
		{900, 4},
		{1050, 5},
	}
	for _, c := range cases {
		if got := LevelForXP(c.xp); got != c.level {
			t.Fatalf("LevelForXP(%d) = %d, want %d", c.xp, got, c.level)
		}
	}
}

func TestLevelForXP_NegativeClamped(t *testing.T) {
	if got := LevelForXP(-10); got != 1 {
		t.Fatalf("LevelForXP(-10) = %d, want 1", got)
	}
}

func TestLevelForXP_NeverDecreasesOnAward(t *testing.T) {
	for xp := 0; xp <= 2000; xp += 37 {
		for _, amount := range []int{1, 50, 250, 999} {
			if LevelForXP(xp+amount) < LevelForXP(xp) {
				t.Fatalf("level decreased: xp=%d amount=%d", xp, amount)
			}
		}
	}
}

func TestDailyRewardXP_Ramp(t *testing.T) {
	cases := []struct {
		streak int
		xp     int
	}{
		{1, 50},
		{2, 60},
		{4, 80},
		{11, 150},
		{12, 150}, // clamped at the cap
		{100, 150},
	}
	for _, c := range cases {
		if got := DailyRewardXP(c.streak); got != c.xp {
			t.Fatalf("DailyRewardXP(%d) = %d, want %d", c.streak, got, c.xp)
		}
	}
}
