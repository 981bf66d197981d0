package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	capacity   int64
	tokens     int64
	refillRate int64 // tokens per second
	lastRefill time.Time
	mutex      sync.Mutex
}

// NewTokenBucket creates a new token bucket with the specified capacity and refill rate
func NewTokenBucket(capacity, refillRate int64) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity, // Start with full bucket
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow checks if a token is available and consumes it if so
func (tb *TokenBucket) Allow() bool {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	return false
}

// refill adds tokens based on time elapsed since last refill
func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()

	tokensToAdd := int64(elapsed * float64(tb.refillRate))
	if tokensToAdd > 0 {
		tb.tokens = minInt64(tb.capacity, tb.tokens+tokensToAdd)
		tb.lastRefill = now
	}
}

// TwoTierRateLimiter enforces both a global and a per-caller rate limit
type TwoTierRateLimiter struct {
	globalBucket   *TokenBucket
	callerBuckets  sync.Map // map[string]*TokenBucket
	callerCapacity int64
	callerRate     int64
}

// NewTwoTierRateLimiter creates a new two-tier rate limiter
func NewTwoTierRateLimiter(globalCapacity, globalRate, callerCapacity, callerRate int64) *TwoTierRateLimiter {
	limiter := &TwoTierRateLimiter{
		globalBucket:   NewTokenBucket(globalCapacity, globalRate),
		callerCapacity: callerCapacity,
		callerRate:     callerRate,
	}

	// Start cleanup routine for caller buckets
	go limiter.cleanupCallerBuckets()

	return limiter
}

// Allow checks both the global and the per-caller rate limit
func (trl *TwoTierRateLimiter) Allow(key string) bool {
	if !trl.globalBucket.Allow() {
		return false
	}

	callerBucket := trl.getOrCreateCallerBucket(key)
	if !callerBucket.Allow() {
		// The global token was consumed but the caller may not proceed,
		// so hand it back
		trl.returnGlobalToken()
		return false
	}

	return true
}

// Wait blocks until a token becomes available for the given caller
func (trl *TwoTierRateLimiter) Wait(ctx context.Context, key string) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if trl.Allow(key) {
				return nil
			}
		}
	}
}

// getOrCreateCallerBucket gets or creates a token bucket for the given caller
func (trl *TwoTierRateLimiter) getOrCreateCallerBucket(key string) *TokenBucket {
	if bucket, ok := trl.callerBuckets.Load(key); ok {
		return bucket.(*TokenBucket)
	}

	newBucket := NewTokenBucket(trl.callerCapacity, trl.callerRate)
	actual, _ := trl.callerBuckets.LoadOrStore(key, newBucket)

	return actual.(*TokenBucket)
}

// returnGlobalToken returns a token to the global bucket
func (trl *TwoTierRateLimiter) returnGlobalToken() {
	trl.globalBucket.mutex.Lock()
	defer trl.globalBucket.mutex.Unlock()

	if trl.globalBucket.tokens < trl.globalBucket.capacity {
		trl.globalBucket.tokens++
	}
}

// cleanupCallerBuckets removes idle caller buckets to prevent memory leaks
func (trl *TwoTierRateLimiter) cleanupCallerBuckets() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-30 * time.Minute)

		trl.callerBuckets.Range(func(key, value interface{}) bool {
			bucket := value.(*TokenBucket)
			bucket.mutex.Lock()
			lastActivity := bucket.lastRefill
			bucket.mutex.Unlock()

			if lastActivity.Before(cutoff) {
				trl.callerBuckets.Delete(key)
			}
			return true
		})
	}
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
