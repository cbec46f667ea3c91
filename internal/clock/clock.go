// Package clock provides a clock abstraction for leapdash.
//
// Core packages must not call time.Now() or time.After() directly. They
// take a Clock so that tests can control both the current time and when
// timers fire.
//
// Usage:
//
//	// In production code
//	ctrl := query.NewController(query.Config{Clock: clock.NewReal()})
//
//	// In tests
//	clk := clock.NewManual(time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC))
//	ctrl := query.NewController(query.Config{Clock: clk})
//	clk.Advance(1500 * time.Millisecond) // fires pending timers
package clock

import (
	"sort"
	"sync"
	"time"
)

// Clock provides the current time and one-shot timers.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// RealClock uses the system time.
// Use only at application entry points (cmd/*, internal/cli).
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// After waits for the duration to elapse on the system clock.
func (RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// NewReal returns a Clock that uses the real system time.
func NewReal() Clock {
	return RealClock{}
}

// FixedClock always returns a fixed time. Its timers fire immediately.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed time.
func (c FixedClock) Now() time.Time {
	return c.T
}

// After returns a channel that already holds the fixed time.
func (c FixedClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.T
	return ch
}

// NewFixed returns a Clock that always returns the given time.
func NewFixed(t time.Time) Clock {
	return FixedClock{T: t}
}

// Manual is a Clock whose time only moves when Advance is called.
// Timers registered with After fire during Advance, in deadline order.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	waiters []waiter
}

type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

// NewManual returns a Manual clock starting at t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// After registers a timer that fires once the clock has advanced by d.
// Non-positive durations fire immediately.
func (m *Manual) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- m.now
		return ch
	}
	m.waiters = append(m.waiters, waiter{deadline: m.now.Add(d), ch: ch})
	return ch
}

// Advance moves the clock forward and fires every timer that is now due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	now := m.now

	var due, pending []waiter
	for _, w := range m.waiters {
		if !w.deadline.After(now) {
			due = append(due, w)
		} else {
			pending = append(pending, w)
		}
	}
	m.waiters = pending
	m.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, w := range due {
		w.ch <- now
	}
}

// Pending returns the number of timers that have not fired yet.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiters)
}

// Verify interface compliance at compile time.
var (
	_ Clock = RealClock{}
	_ Clock = FixedClock{}
	_ Clock = (*Manual)(nil)
)
