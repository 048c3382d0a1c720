// Package chaos injects artificial network behavior into dispatch so that
// callers exercise the timing they would see against a real backend.
//
// The simulator only injects a fixed latency. Richer fault types (error
// rates, corrupted bodies, circuit breaking) belong to the canned error
// endpoints and scenario routes instead, where they stay deterministic.
package chaos

import (
	"context"
	"time"

	"github.com/stubdock/stubdock/pkg/clock"
)

// LatencyInjector applies a fixed delay before any request logic runs.
type LatencyInjector struct {
	delay time.Duration
	clk   clock.Clock
}

// NewLatencyInjector creates an injector with the given delay.
// A nil clock uses the system clock.
func NewLatencyInjector(delay time.Duration, clk clock.Clock) *LatencyInjector {
	if clk == nil {
		clk = clock.System{}
	}
	return &LatencyInjector{delay: delay, clk: clk}
}

// Apply blocks for the configured delay. It returns early only when ctx
// is cancelled.
func (l *LatencyInjector) Apply(ctx context.Context) error {
	if l == nil || l.delay <= 0 {
		return nil
	}
	return l.clk.Sleep(ctx, l.delay)
}

// Delay returns the configured delay.
func (l *LatencyInjector) Delay() time.Duration {
	if l == nil {
		return 0
	}
	return l.delay
}
