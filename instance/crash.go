package instance

import "time"

// crashLimiter decides whether a crashed renderer is restarted. A crash
// within the threshold of the previous one (or of the start of the mirror)
// is not restarted, so a renderer that crashes on load does not loop.
type crashLimiter struct {
	threshold time.Duration
	now       func() time.Time
	last      time.Time
}

func newCrashLimiter(threshold time.Duration, now func() time.Time) *crashLimiter {
	return &crashLimiter{threshold: threshold, now: now, last: now()}
}

// crashed records a crash and reports whether a restart is allowed.
func (c *crashLimiter) crashed() bool {
	now := c.now()
	elapsed := now.Sub(c.last)
	c.last = now
	return elapsed >= c.threshold
}
