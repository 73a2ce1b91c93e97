package ratelimit

import (
	"sync"
	"time"
)

// sweepInterval bounds how often expired counters are cleaned up.
const sweepInterval = 5 * time.Minute

// Counter tracks requests inside one fixed window.
type Counter struct {
	Count       int
	WindowStart time.Time
}

// Limiter implements per-key fixed-window rate limiting. Expired
// counters are swept lazily on access, at most once per sweepInterval,
// so no background goroutine is needed.
type Limiter struct {
	mu       sync.Mutex
	counters map[string]*Counter

	maxRequests int
	window      time.Duration

	lastSweep  time.Time
	sweepEvery time.Duration
}

// NewLimiter creates a limiter allowing maxRequests per window per key.
func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		counters:    make(map[string]*Counter),
		maxRequests: maxRequests,
		window:      window,
		sweepEvery:  sweepInterval,
	}
}

// Result contains the rate limit check result
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Allow records a request for key and reports whether it fits the
// budget. Keys are typically client addresses.
func (l *Limiter) Allow(key string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.maybeSweep(now)

	counter, exists := l.counters[key]
	if !exists || now.Sub(counter.WindowStart) >= l.window {
		counter = &Counter{WindowStart: now}
		l.counters[key] = counter
	}

	if counter.Count >= l.maxRequests {
		return Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: counter.WindowStart.Add(l.window).Sub(now),
		}
	}

	counter.Count++
	return Result{
		Allowed:   true,
		Remaining: l.maxRequests - counter.Count,
	}
}

// Size returns the number of tracked keys. Used for stats.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.counters)
}

func (l *Limiter) maybeSweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.sweepEvery {
		return
	}
	l.lastSweep = now

	for key, counter := range l.counters {
		if now.Sub(counter.WindowStart) >= l.window {
			delete(l.counters, key)
		}
	}
}
