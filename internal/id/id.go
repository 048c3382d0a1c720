// Package id provides identifier generation utilities.
// This is the canonical source for ID generation across the codebase.
package id

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/xid"
)

// Sequence issues monotonically increasing prefixed identifiers.
// It is safe for concurrent use. A sequence never reissues a value, so a
// record deleted under one identifier can never reappear under the same one.
type Sequence struct {
	prefix string
	next   atomic.Int64
}

// NewSequence creates a sequence producing identifiers of the form
// <prefix><n>, where n starts at base+1.
func NewSequence(prefix string, base int64) *Sequence {
	s := &Sequence{prefix: prefix}
	s.next.Store(base)
	return s
}

// Next returns a fresh identifier.
func (s *Sequence) Next() string {
	return fmt.Sprintf("%s%d", s.prefix, s.next.Add(1))
}

// Observe bumps the sequence past an externally assigned identifier so
// later Next calls never collide with it, even after the external record
// is deleted. Identifiers that are not the sequence prefix followed by
// digits are ignored.
func (s *Sequence) Observe(id string) {
	rest, ok := strings.CutPrefix(id, s.prefix)
	if !ok {
		return
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || n < 0 {
		return
	}
	for {
		cur := s.next.Load()
		if cur >= n || s.next.CompareAndSwap(cur, n) {
			return
		}
	}
}

// Event returns a time-ordered event identifier. Identifiers generated
// later sort after identifiers generated earlier, which keeps audit logs
// reconstructable from ids alone.
func Event() string {
	return "evt_" + xid.New().String()
}

// UUID generates a UUID v4 (random).
func UUID() string {
	return uuid.NewString()
}
