package derive

import (
	"time"

	"parkspotter-admin/internal/utils"
)

const (
	StatusActive  = "Active"
	StatusExpired = "Expired"
)

// SubscriptionStatus is Active while end is not before now. Unparseable end dates are Expired.
func SubscriptionStatus(end string, now time.Time) string {
	t, ok := utils.ParseDate(end)
	if !ok {
		return StatusExpired
	}
	if !t.Before(now) {
		return StatusActive
	}
	return StatusExpired
}

// ExpiresWithin reports whether end parses and falls in [now, now+window].
func ExpiresWithin(end string, now time.Time, window time.Duration) bool {
	t, ok := utils.ParseDate(end)
	if !ok {
		return false
	}
	return !t.Before(now) && !t.After(now.Add(window))
}
