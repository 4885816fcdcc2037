package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	window int64
	count  int
}

// MemoryLimiter implements a fixed-window in-memory rate limiter.
// The window is one minute, sized for throttling login attempts.
type MemoryLimiter struct {
	mu          sync.Mutex
	counters    map[string]*memoryEntry
	sweepWindow int64
}

// NewMemoryLimiter constructs a MemoryLimiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		counters: make(map[string]*memoryEntry),
	}
}

// Allow checks whether the request should be allowed in the current window.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, now time.Time) (Result, error) {
	if limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	window := now.Unix() / 60
	reset := time.Unix((window+1)*60, 0).UTC()

	l.mu.Lock()
	l.sweep(window)
	entry := l.counters[key]
	if entry == nil {
		entry = &memoryEntry{window: window}
		l.counters[key] = entry
	}
	if entry.window != window {
		entry.window = window
		entry.count = 0
	}
	if entry.count >= limit {
		l.mu.Unlock()
		return Result{Allowed: false, Remaining: 0, Reset: reset}, nil
	}
	entry.count++
	remaining := limit - entry.count
	l.mu.Unlock()
	return Result{Allowed: true, Remaining: remaining, Reset: reset}, nil
}

// sweep drops counters from past windows once per window change so the map
// does not grow with the number of distinct keys ever seen. Caller holds mu.
func (l *MemoryLimiter) sweep(window int64) {
	if l.sweepWindow == window {
		return
	}
	l.sweepWindow = window
	for key, entry := range l.counters {
		if entry.window != window {
			delete(l.counters, key)
		}
	}
}
