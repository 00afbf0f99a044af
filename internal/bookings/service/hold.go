package service

import (
	"time"
)

// HoldManager owns the provisional hold window. A new booking's seats
// are held for the configured duration; after that the hold is spent
// and the seats return to the pool whether or not the sweep has marked
// the booking EXPIRED yet.
type HoldManager struct {
	duration time.Duration
}

func NewHoldManager(duration time.Duration) *HoldManager {
	return &HoldManager{duration: duration}
}

// NextExpiry returns the hold deadline for a booking created now.
func (h *HoldManager) NextExpiry(now time.Time) time.Time {
	return now.Add(h.duration).UTC().Truncate(time.Millisecond)
}

// Expired reports whether a hold deadline has passed. A nil deadline
// means no hold is in force.
func (h *HoldManager) Expired(holdExpiresAt *time.Time, now time.Time) bool {
	return holdExpiresAt != nil && holdExpiresAt.Before(now)
}
