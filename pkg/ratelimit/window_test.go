package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// manualNow is a trivially controllable time source.
type manualNow struct {
	mu sync.Mutex
	t  time.Time
}

func (m *manualNow) now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t
}

func (m *manualNow) advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = m.t.Add(d)
}

func TestCheck_AllowsUpToLimit(t *testing.T) {
	t.Parallel()
	clk := &manualNow{t: time.Unix(1000, 0)}
	w := New(10, time.Minute, clk.now)

	for i := 0; i < 10; i++ {
		d := w.Check()
		if !d.Allowed {
			t.Fatalf("check #%d should be allowed", i+1)
		}
		if d.Remaining != 10-(i+1) {
			t.Errorf("check #%d: expected remaining %d, got %d", i+1, 10-(i+1), d.Remaining)
		}
	}
}

func TestCheck_DeniesEleventhWithPositiveRetryAfter(t *testing.T) {
	t.Parallel()
	clk := &manualNow{t: time.Unix(1000, 0)}
	w := New(10, time.Minute, clk.now)

	for i := 0; i < 10; i++ {
		w.Check()
	}
	clk.advance(30 * time.Second)

	d := w.Check()
	if d.Allowed {
		t.Fatal("11th check within the window should be denied")
	}
	if d.RetryAfter <= 0 {
		t.Errorf("expected positive RetryAfter, got %v", d.RetryAfter)
	}
	if d.RetryAfter != 30*time.Second {
		t.Errorf("expected RetryAfter 30s (time to window end), got %v", d.RetryAfter)
	}
}

func TestCheck_RetryAfterNeverBelowOneSecond(t *testing.T) {
	t.Parallel()
	clk := &manualNow{t: time.Unix(1000, 0)}
	w := New(1, time.Minute, clk.now)

	w.Check()
	clk.advance(time.Minute - 10*time.Millisecond)

	d := w.Check()
	if d.Allowed {
		t.Fatal("expected denial")
	}
	if d.RetryAfter < time.Second {
		t.Errorf("RetryAfter must be at least 1s, got %v", d.RetryAfter)
	}
}

func TestCheck_ResetsAfterWindowElapses(t *testing.T) {
	t.Parallel()
	clk := &manualNow{t: time.Unix(1000, 0)}
	w := New(10, time.Minute, clk.now)

	for i := 0; i < 11; i++ {
		w.Check()
	}
	clk.advance(time.Minute + time.Second)

	d := w.Check()
	if !d.Allowed {
		t.Fatal("first check of a fresh window should be allowed")
	}
	if d.Remaining != 9 {
		t.Errorf("expected remaining 9 after window reset, got %d", d.Remaining)
	}
}

func TestReset_ClearsCounter(t *testing.T) {
	t.Parallel()
	clk := &manualNow{t: time.Unix(1000, 0)}
	w := New(2, time.Minute, clk.now)

	w.Check()
	w.Check()
	if w.Check().Allowed {
		t.Fatal("third check should be denied")
	}

	w.Reset()
	if !w.Check().Allowed {
		t.Error("check after Reset should be allowed")
	}
}

func TestNew_DefaultsApplied(t *testing.T) {
	t.Parallel()
	w := New(0, 0, nil)
	if w.Limit() != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, w.Limit())
	}
}
