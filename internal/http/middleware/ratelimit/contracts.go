package ratelimit

import "time"

// Limiter decides whether client may call route now. route is
// "<METHOD> <pattern>", e.g. "POST /offer/accept".
type Limiter interface {
	Allow(client, route string) bool
}

// Clock provides current time. clock.Real satisfies it.
type Clock interface {
	Now() time.Time
}

// NopLimiter lets every request through; used when rate limiting is off.
type NopLimiter struct{}

// Allow always returns true
func (NopLimiter) Allow(string, string) bool { return true }

// NewNopLimiter returns NopLimiter
func NewNopLimiter() Limiter { return NopLimiter{} }
