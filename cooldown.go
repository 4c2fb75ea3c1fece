package authflow

import (
	"sync"
	"time"
)

// Countdown models the resend cooldown: a deadline plus an optional
// one-second tick feed for UI display. Arming while active extends nothing
// unless the caller asks; ticking always stops at zero and Stop is safe on
// every exit path.
type Countdown struct {
	mu       sync.Mutex
	now      func() time.Time
	interval time.Duration
	deadline time.Time
	onTick   func(remaining time.Duration)
	stop     chan struct{}
}

// CountdownOption customizes a Countdown.
type CountdownOption func(*Countdown)

// WithCountdownClock injects a custom clock (useful for tests).
func WithCountdownClock(clock func() time.Time) CountdownOption {
	return func(c *Countdown) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithCountdownInterval overrides the tick interval.
func WithCountdownInterval(d time.Duration) CountdownOption {
	return func(c *Countdown) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithCountdownTick registers a callback invoked once per tick with the time
// remaining; it fires a final time with zero.
func WithCountdownTick(fn func(remaining time.Duration)) CountdownOption {
	return func(c *Countdown) {
		c.onTick = fn
	}
}

// NewCountdown returns an unarmed countdown.
func NewCountdown(opts ...CountdownOption) *Countdown {
	c := &Countdown{
		now:      defaultClock,
		interval: time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Arm sets the deadline d from now and starts the tick feed when one is
// registered. Re-arming replaces the deadline.
func (c *Countdown) Arm(d time.Duration) {
	c.mu.Lock()
	c.deadline = c.now().Add(d)
	startTicker := c.onTick != nil && c.stop == nil
	var stop chan struct{}
	if startTicker {
		stop = make(chan struct{})
		c.stop = stop
	}
	c.mu.Unlock()

	if startTicker {
		go c.run(stop)
	}
}

// Remaining returns how much cooldown is left; zero when inactive.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	rem := c.deadline.Sub(c.now())
	if rem < 0 {
		return 0
	}
	return rem
}

// Active reports whether the cooldown is still running.
func (c *Countdown) Active() bool {
	return c.Remaining() > 0
}

// Stop cancels the tick feed and clears the deadline. Safe to call multiple
// times and after natural expiry.
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.deadline = time.Time{}
	stop := c.stop
	c.stop = nil
	c.mu.Unlock()

	if stop != nil {
		close(stop)
	}
}

func (c *Countdown) run(stop chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			rem := c.Remaining()
			if c.onTick != nil {
				c.onTick(rem)
			}
			if rem == 0 {
				c.mu.Lock()
				if c.stop == stop {
					c.stop = nil
				}
				c.mu.Unlock()
				return
			}
		}
	}
}
