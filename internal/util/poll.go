// ABOUTME: Poll pacing for long-running remote operations
// ABOUTME: Doubles the wait per attempt with jitter, capped at a maximum
package util

import (
	"math/rand/v2"
	"time"
)

// PollInterval returns how long to wait before poll number attempt (0-based).
// The interval starts at base, doubles each attempt, and never exceeds max.
// Jitter of up to 25% either way spreads out concurrent pollers.
func PollInterval(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	if max < base {
		max = base
	}

	interval := base
	for i := 0; i < attempt && interval < max; i++ {
		interval *= 2
	}
	if interval > max {
		interval = max
	}

	// Add jitter: -25% to +25% using auto-seeded math/rand/v2
	jitter := time.Duration(rand.Int64N(int64(interval)/2+1)) - interval/4
	interval += jitter
	if interval > max {
		interval = max
	}
	return interval
}
