package gamify

import "errors"

// Sentinel errors so handlers can branch on domain no-ops vs hard failures.
var (
	ErrInvalidAmount    = errors.New("xp amount must be positive")
	ErrInvalidScore     = errors.New("score must be between 0 and 100")
	ErrUserNotFound     = errors.New("user not found")
	ErrQuestNotFound    = errors.New("quest not found")
	ErrBadgeNotFound    = errors.New("badge not found")
	ErrNotEventBadge    = errors.New("badge is threshold-based, not event-granted")
	ErrAlreadyClaimed   = errors.New("daily reward already claimed today")
	ErrAlreadyCompleted = errors.New("quest already completed")
)
