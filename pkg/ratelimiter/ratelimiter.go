// Package ratelimiter implements a token bucket for throttling calls to
// shared external services.
package ratelimiter

import (
	"sync"
	"time"
)

type RateLimiter interface {
	TakeToken() bool
	Wait()
}

type TokenBucket struct {
	capacity   float64
	tokens     float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

func NewTokenBucket(refillRate, capacity int64) *TokenBucket {
	if capacity <= 0 {
		capacity = 1
	}
	if refillRate <= 0 {
		refillRate = 1
	}

	return &TokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		refillRate: float64(refillRate),
		lastRefill: time.Now(),
	}
}

func (tb *TokenBucket) TakeToken() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	tb.tokens += now.Sub(tb.lastRefill).Seconds() * tb.refillRate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
	tb.lastRefill = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

func (tb *TokenBucket) Wait() {
	waitTime := time.Duration(float64(time.Second) / tb.refillRate)
	if waitTime < 50*time.Millisecond {
		waitTime = 50 * time.Millisecond
	}

	for !tb.TakeToken() {
		time.Sleep(waitTime)
	}
}
