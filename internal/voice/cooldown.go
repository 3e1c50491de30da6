package voice

import (
	"sync"
	"time"
)

// Cooldown suppresses repeated announcements for the same name within an
// interval. State is in-memory only and independent of the ledger.
type Cooldown struct {
	interval time.Duration

	mu   sync.Mutex
	last map[string]time.Time
}

// NewCooldown creates a cooldown gate with the given suppression interval.
// A non-positive interval disables suppression entirely.
func NewCooldown(interval time.Duration) *Cooldown {
	return &Cooldown{
		interval: interval,
		last:     make(map[string]time.Time),
	}
}

// Allow reports whether an announcement for name may fire at now, and if
// so, records it. Check and record are one atomic step so concurrent frames
// cannot both pass the gate.
func (c *Cooldown) Allow(name string, now time.Time) bool {
	if c.interval <= 0 {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.last[name]; ok && now.Sub(last) < c.interval {
		return false
	}
	c.last[name] = now
	return true
}
