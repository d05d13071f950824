// Package pagingtest provides a manually driven clock for testing code that
// depends on [paging.Scheduler].
package pagingtest

import (
	"sync"
	"time"

	"github.com/macropower/flip/pkg/paging"
)

// Clock is a fake clock and [paging.Scheduler]. Timers only fire during
// [Clock.Advance], on the calling goroutine.
type Clock struct {
	now    time.Time
	timers []*timer
	mu     sync.Mutex
}

// NewClock creates a new [Clock] reading start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// AfterFunc implements [paging.Scheduler].
func (c *Clock) AfterFunc(d time.Duration, f func()) paging.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &timer{clock: c, deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)

	return t
}

// Advance moves the clock forward by d, firing every timer that becomes due
// in deadline order. Callbacks run without the clock's lock held, so they
// may schedule new timers.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()

		idx := -1
		for i, t := range c.timers {
			if t.deadline.After(target) {
				continue
			}
			if idx == -1 || t.deadline.Before(c.timers[idx].deadline) {
				idx = i
			}
		}

		if idx == -1 {
			c.now = target
			c.mu.Unlock()

			return
		}

		t := c.timers[idx]
		c.timers = append(c.timers[:idx], c.timers[idx+1:]...)
		c.now = t.deadline
		c.mu.Unlock()

		t.f()
	}
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.timers)
}

type timer struct {
	clock    *Clock
	deadline time.Time
	f        func()
}

func (t *timer) Stop() bool {
	c := t.clock

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, pending := range c.timers {
		if pending == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}

	return false
}
