package llm

import (
	"time"

	"golang.org/x/time/rate"
)

// newRateLimiter builds a limiter from a duration string, falling back
// to the given default when the string is empty or invalid. One request
// per interval with a burst of one keeps free-tier API quotas happy.
func newRateLimiter(interval string, fallback time.Duration) *rate.Limiter {
	d, err := time.ParseDuration(interval)
	if err != nil || d <= 0 {
		d = fallback
	}
	return rate.NewLimiter(rate.Every(d), 1)
}
