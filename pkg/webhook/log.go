// Package webhook maintains the bounded, append-only-with-eviction audit
// log of dispatched webhook events.
//
// Triggering is fire-and-forget: recording the event in the log is the
// only side effect, and the caller is told the event was accepted, not
// that any downstream delivery occurred.
package webhook

import (
	"sync"
	"time"

	"github.com/stubdock/stubdock/internal/id"
)

// DefaultBound is the maximum number of events retained in the log.
const DefaultBound = 10

// DefaultType is used when a trigger supplies no event type.
const DefaultType = "ping"

// Event is one dispatched webhook event. Events are never mutated after
// creation.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	// Payload is any JSON-compatible value, not just an object.
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

// Log is the bounded event log, most recent first. It is safe for
// concurrent use.
type Log struct {
	mu     sync.RWMutex
	bound  int
	events []Event
	now    func() time.Time
}

// NewLog creates a log retaining at most bound events. A non-positive
// bound uses DefaultBound; a nil now func uses time.Now.
func NewLog(bound int, now func() time.Time) *Log {
	if bound <= 0 {
		bound = DefaultBound
	}
	if now == nil {
		now = time.Now
	}
	return &Log{bound: bound, now: now}
}

// Trigger constructs an event, inserts it at the head of the log, and
// evicts the oldest entry once the log exceeds its bound.
func (l *Log) Trigger(eventType string, payload any) Event {
	if eventType == "" {
		eventType = DefaultType
	}
	if payload == nil {
		payload = map[string]any{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ev := Event{
		ID:        id.Event(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: l.now().UTC().Format(time.RFC3339),
	}

	l.events = append([]Event{ev}, l.events...)
	if len(l.events) > l.bound {
		l.events = l.events[:l.bound]
	}
	return ev
}

// History returns the current log, most recent first, without mutation.
func (l *Log) History() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of retained events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// Reset drops all retained events.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}
