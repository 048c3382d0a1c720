package chaos

import (
	"context"
	"testing"
	"time"

	"github.com/stubdock/stubdock/pkg/clock"
)

func TestApply_AdvancesClockByDelay(t *testing.T) {
	t.Parallel()
	fake := clock.NewFake(time.Unix(0, 0))
	inj := NewLatencyInjector(250*time.Millisecond, fake)

	if err := inj.Apply(context.Background()); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if got := fake.Now(); !got.Equal(time.Unix(0, 0).Add(250 * time.Millisecond)) {
		t.Errorf("expected clock advanced by delay, now=%v", got)
	}
}

func TestApply_ZeroDelayIsNoop(t *testing.T) {
	t.Parallel()
	fake := clock.NewFake(time.Unix(0, 0))
	inj := NewLatencyInjector(0, fake)

	if err := inj.Apply(context.Background()); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !fake.Now().Equal(time.Unix(0, 0)) {
		t.Error("zero delay must not advance the clock")
	}
}

func TestApply_NilInjectorIsSafe(t *testing.T) {
	t.Parallel()
	var inj *LatencyInjector
	if err := inj.Apply(context.Background()); err != nil {
		t.Fatalf("nil injector Apply returned error: %v", err)
	}
	if inj.Delay() != 0 {
		t.Error("nil injector should report zero delay")
	}
}

func TestApply_CancelledContext(t *testing.T) {
	t.Parallel()
	inj := NewLatencyInjector(time.Minute, clock.NewFake(time.Unix(0, 0)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := inj.Apply(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}
}
