package gamify

// LevelXPQuantum is the XP span of one level: level = xp/quantum + 1.
const LevelXPQuantum = 250

// Daily reward ramp: base XP on the first day of a streak, a fixed step per
// consecutive day, clamped at the cap.
const (
	DailyBaseReward = 50
	DailyStreakStep = 10
	DailyRewardCap  = 150
)

// LevelForXP derives the level from a total XP. Integer division truncates,
// so levels move only at exact quantum boundaries.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/LevelXPQuantum + 1
}

// DailyRewardXP computes the XP granted for a claim at the given streak count.
func DailyRewardXP(streak int) int {
	if streak < 1 {
		streak = 1
	}
	xp := DailyBaseReward + (streak-1)*DailyStreakStep
	if xp > DailyRewardCap {
		xp = DailyRewardCap
	}
	return xp
}
