// Package clock supplies the current time to engine callers.
//
// The engine never reads wall-clock time itself: every operation receives
// the time as an argument. Hosts obtain it from a Clock.
package clock

import (
	"sync"
	"time"
)

// Clock supplies a monotonically non-decreasing current time.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock, truncated to whole seconds in UTC so that
// journaled times round-trip exactly.
type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC().Truncate(time.Second) }

// Fake is deterministic and test-friendly. It never moves backwards.
type Fake struct {
	mu sync.Mutex
	t  time.Time
}

func NewFake(start time.Time) *Fake {
	return &Fake{t: start}
}

func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to t. Earlier times are ignored.
func (c *Fake) Set(t time.Time) {
	c.mu.Lock()
	if t.After(c.t) {
		c.t = t
	}
	c.mu.Unlock()
}

// Advance moves the clock forward by d. Negative durations are ignored.
func (c *Fake) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}
