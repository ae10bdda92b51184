package audio

import (
	"sync"
	"time"
)

// TimerClock is a pause-aware wall clock with a fixed length, used when a chart has no
// audio or sound is disabled.
type TimerClock struct {
	mu      sync.Mutex
	now     func() time.Time
	length  float64
	base    float64   // position when the clock last started or seeked
	since   time.Time // wall time base was taken; meaningful while running
	running bool
}

// NewTimerClock creates a clock that ends after length seconds. A length of zero or less
// never ends.
func NewTimerClock(length float64) *TimerClock {
	return &TimerClock{now: time.Now, length: length}
}

// WithNow replaces the time source.
func (c *TimerClock) WithNow(now func() time.Time) *TimerClock {
	c.now = now
	return c
}

// Start runs the clock from its current position.
func (c *TimerClock) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		c.since = c.now()
		c.running = true
	}
	return nil
}

// Pause freezes the position.
func (c *TimerClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.base = c.position()
		c.running = false
	}
}

// Seek moves to seconds. Negative targets clamp to zero.
func (c *TimerClock) Seek(seconds float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = max(0, seconds)
	c.since = c.now()
	return nil
}

// Position returns elapsed seconds, capped at the length.
func (c *TimerClock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position()
}

func (c *TimerClock) position() float64 {
	p := c.base
	if c.running {
		p += c.now().Sub(c.since).Seconds()
	}
	if c.length > 0 && p > c.length {
		p = c.length
	}
	return p
}

// Length returns the configured length in seconds.
func (c *TimerClock) Length() float64 {
	return c.length
}

// Ended reports whether the position reached the length. An unbounded clock never ends.
func (c *TimerClock) Ended() bool {
	if c.length <= 0 {
		return false
	}
	return c.Position() >= c.length
}

// Close pauses the clock. There is nothing to release.
func (c *TimerClock) Close() error {
	c.Pause()
	return nil
}
