package ratelimiter

import (
	"sync"
	"time"
)

// RequestCounter tracks request count and reset time for one client identity
type RequestCounter struct {
	Count     int
	ResetTime time.Time
}

// Limiter implements fixed-window rate limiting for one route category,
// keyed by client network identity. Each category owns an independent
// ceiling, window and advisory message.
type Limiter struct {
	category string
	message  string
	requests map[string]*RequestCounter
	mutex    sync.Mutex
	limit    int
	window   time.Duration
}

// New creates a Limiter for the named category with the given ceiling,
// window and advisory message returned on limited requests
func New(category string, limit int, window time.Duration, message string) *Limiter {
	return &Limiter{
		category: category,
		message:  message,
		requests: make(map[string]*RequestCounter),
		limit:    limit,
		window:   window,
	}
}

// Category returns the route category this limiter guards
func (l *Limiter) Category() string {
	return l.category
}

// Allow checks whether the identity may make a request in the current
// window. The check and the count update happen under one lock, so
// concurrent bursts cannot slip past the ceiling between a read and a
// write. A lapsed window resets atomically with no carried-over credit.
func (l *Limiter) Allow(identity string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := time.Now()

	counter, exists := l.requests[identity]
	if !exists {
		l.requests[identity] = &RequestCounter{
			Count:     1,
			ResetTime: now.Add(l.window),
		}
		return true
	}

	if now.After(counter.ResetTime) {
		counter.Count = 1
		counter.ResetTime = now.Add(l.window)
		return true
	}

	if counter.Count >= l.limit {
		return false
	}

	counter.Count++
	return true
}

// RequestInfo returns the current count and reset time for an identity
func (l *Limiter) RequestInfo(identity string) (count int, resetTime time.Time) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	counter, exists := l.requests[identity]
	if !exists || time.Now().After(counter.ResetTime) {
		return 0, time.Now().Add(l.window)
	}

	return counter.Count, counter.ResetTime
}

// Cleanup removes lapsed entries to prevent unbounded growth
func (l *Limiter) Cleanup() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := time.Now()
	for identity, counter := range l.requests {
		if now.After(counter.ResetTime) {
			delete(l.requests, identity)
		}
	}
}
