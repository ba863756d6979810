package services

import (
	"time"

	"github.com/tbourn/go-sms-backend/internal/domain"
)

// Default per-subscriber caps protecting the paid answer and SMS collaborators.
const (
	DefaultPerHour = 20
	DefaultPerDay  = 200
)

const (
	hourSecs = int64(time.Hour / time.Second)
	daySecs  = int64(24 * time.Hour / time.Second)
)

// RateLimiter applies fixed-bucket hour and day caps to a subscriber's
// RateWindow. It holds no state of its own; the window is loaded and saved by
// the caller inside the request transaction.
type RateLimiter struct {
	PerHour int
	PerDay  int
}

// NewRateLimiter returns a limiter with the given caps, substituting the
// defaults for non-positive values.
func NewRateLimiter(perHour, perDay int) RateLimiter {
	if perHour <= 0 {
		perHour = DefaultPerHour
	}
	if perDay <= 0 {
		perDay = DefaultPerDay
	}
	return RateLimiter{PerHour: perHour, PerDay: perDay}
}

// Admit rolls w's buckets forward to now and then checks and increments both
// counters as one step. When either bucket is at or above its cap the call
// returns false and neither counter changes.
func (l RateLimiter) Admit(w *domain.RateWindow, now time.Time) bool {
	unix := now.Unix()
	hb, db := unix/hourSecs, unix/daySecs

	if w.HourIndex != hb {
		w.HourIndex, w.HourCount = hb, 0
	}
	if w.DayIndex != db {
		w.DayIndex, w.DayCount = db, 0
	}

	if w.HourCount >= l.PerHour || w.DayCount >= l.PerDay {
		return false
	}
	w.HourCount++
	w.DayCount++
	return true
}
