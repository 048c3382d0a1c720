// Package ratelimit provides the fixed-window request counter used to
// simulate throttling on designated endpoint families.
//
// A fixed window resets its counter at window boundaries rather than
// sliding continuously. A burst straddling a boundary can therefore admit
// up to twice the limit across the two windows; that is inherent to the
// strategy, not a defect.
package ratelimit

import (
	"sync"
	"time"
)

// Default parameters for the simulated throttle.
const (
	DefaultLimit  = 10
	DefaultWindow = time.Minute
)

// Decision is the outcome of a single rate-limit check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool
	// Remaining is the number of requests left in the current window.
	Remaining int
	// RetryAfter is how long until the window resets. Only set on denial,
	// and never less than one second so callers always see a positive hint.
	RetryAfter time.Duration
}

// FixedWindow counts requests against a limit within a fixed time window.
// It is safe for concurrent use.
type FixedWindow struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	count       int
	windowStart time.Time
	now         func() time.Time
}

// New creates a fixed-window limiter. A nil now func uses time.Now;
// non-positive limit or window fall back to the defaults.
func New(limit int, window time.Duration, now func() time.Time) *FixedWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if now == nil {
		now = time.Now
	}
	return &FixedWindow{
		limit:       limit,
		window:      window,
		now:         now,
		windowStart: now(),
	}
}

// Check records one request against the window and reports whether it is
// allowed. The window resets when more than the window duration has
// elapsed since it started; every check increments the counter.
func (w *FixedWindow) Check() Decision {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if now.Sub(w.windowStart) > w.window {
		w.count = 0
		w.windowStart = now
	}
	w.count++

	if w.count <= w.limit {
		return Decision{Allowed: true, Remaining: w.limit - w.count}
	}

	retry := w.window - now.Sub(w.windowStart)
	if retry < time.Second {
		retry = time.Second
	}
	return Decision{RetryAfter: retry}
}

// Reset clears the counter and restarts the window at the current time.
func (w *FixedWindow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.count = 0
	w.windowStart = w.now()
}

// Limit returns the configured per-window request limit.
func (w *FixedWindow) Limit() int {
	return w.limit
}
