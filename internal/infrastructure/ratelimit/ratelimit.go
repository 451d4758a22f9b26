// Package ratelimit throttles login attempts per client address with a
// sliding window.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter allows at most limit attempts per key within window. Every
// attempt counts, successful or not; refused attempts are not recorded.
type Limiter struct {
	mu       sync.Mutex
	window   time.Duration
	limit    int
	attempts map[string][]time.Time
	now      func() time.Time
}

func New(window time.Duration, limit int) *Limiter {
	l := newWithClock(window, limit, time.Now)
	go l.cleanupStaleEntries()
	return l
}

func newWithClock(window time.Duration, limit int, now func() time.Time) *Limiter {
	return &Limiter{
		window:   window,
		limit:    limit,
		attempts: make(map[string][]time.Time),
		now:      now,
	}
}

// Allow reports whether an attempt from key is within the limit, recording
// it when it is.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)

	var valid []time.Time
	for _, at := range l.attempts[key] {
		if at.After(windowStart) {
			valid = append(valid, at)
		}
	}

	if len(valid) >= l.limit {
		l.attempts[key] = valid
		return false
	}

	l.attempts[key] = append(valid, now)
	return true
}

func (l *Limiter) cleanupStaleEntries() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		cutoff := l.now().Add(-l.window)
		for key, attempts := range l.attempts {
			var valid []time.Time
			for _, at := range attempts {
				if at.After(cutoff) {
					valid = append(valid, at)
				}
			}
			if len(valid) == 0 {
				delete(l.attempts, key)
			} else {
				l.attempts[key] = valid
			}
		}
		l.mu.Unlock()
	}
}
