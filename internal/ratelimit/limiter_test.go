package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinBudget(t *testing.T) {
	l := NewLimiter(60, time.Minute)

	for i := 0; i < 60; i++ {
		res := l.Allow("10.0.0.1")
		if !res.Allowed {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
		if res.Remaining != 60-(i+1) {
			t.Errorf("request %d: Remaining = %d, want %d", i+1, res.Remaining, 60-(i+1))
		}
	}

	res := l.Allow("10.0.0.1")
	if res.Allowed {
		t.Error("61st request allowed, want denied")
	}
	if res.RetryAfter <= 0 || res.RetryAfter > time.Minute {
		t.Errorf("RetryAfter = %v, want within (0, 1m]", res.RetryAfter)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := NewLimiter(1, time.Minute)

	if !l.Allow("10.0.0.1").Allowed {
		t.Fatal("first key denied")
	}
	if l.Allow("10.0.0.1").Allowed {
		t.Error("first key not exhausted")
	}
	if !l.Allow("10.0.0.2").Allowed {
		t.Error("second key denied, budgets must be per key")
	}
}

func TestWindowReset(t *testing.T) {
	l := NewLimiter(1, 20*time.Millisecond)

	if !l.Allow("10.0.0.1").Allowed {
		t.Fatal("first request denied")
	}
	if l.Allow("10.0.0.1").Allowed {
		t.Fatal("second request allowed inside window")
	}

	time.Sleep(30 * time.Millisecond)

	if !l.Allow("10.0.0.1").Allowed {
		t.Error("request after window expiry denied")
	}
}

func TestLazySweepDropsExpiredCounters(t *testing.T) {
	l := NewLimiter(10, 20*time.Millisecond)
	l.sweepEvery = 0 // sweep on every access

	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")
	if got := l.Size(); got != 2 {
		t.Fatalf("Size() = %d, want 2", got)
	}

	time.Sleep(30 * time.Millisecond)

	// Access under a third key triggers the sweep of the expired two.
	l.Allow("10.0.0.3")
	if got := l.Size(); got != 1 {
		t.Errorf("Size() after sweep = %d, want 1", got)
	}
}

func TestSweepIsThrottled(t *testing.T) {
	l := NewLimiter(10, 10*time.Millisecond)

	// The first access performs the initial sweep and arms the throttle.
	l.Allow("10.0.0.1")
	time.Sleep(20 * time.Millisecond)

	// Inside the sweep interval expired counters stay in the map even
	// though their windows have passed.
	l.Allow("10.0.0.2")
	if got := l.Size(); got != 2 {
		t.Errorf("Size() = %d, want 2 before sweep interval elapses", got)
	}
}
