package ratelimit

import (
	"sync"
	"time"

	"github.com/EdilKulzhabay/courier/internal/clock"
)

// Policy is a refill rate and a capacity.
type Policy struct {
	Rate  float64 // tokens per second
	Burst int     // capacity (max tokens)
}

// Config stores TokenBucketLimiter settings.
type Config struct {
	Rate       float64       // default tokens per second
	Burst      int           // default capacity
	TTL        time.Duration // delete idle buckets (0 disables)
	MaxBuckets int           // maximum number of buckets (0 = unbounded)
	// Routes overrides the default policy per route. Panel drags, for one,
	// arrive in bursts while the courier moves the sheet.
	Routes map[string]Policy
}

// TokenBucketLimiter keeps one token bucket per client and route, so a shell
// stuck in a retry loop on one endpoint does not starve the others.
type TokenBucketLimiter struct {
	def         Policy
	routes      map[string]Policy
	ttl         time.Duration
	maxBuckets  int
	clock       Clock
	mu          sync.RWMutex
	buckets     map[bucketKey]*bucket
	lastCleanup time.Time
}

type bucketKey struct {
	client string
	route  string
}

type bucket struct {
	mu       sync.Mutex
	policy   Policy
	tokens   float64
	last     time.Time
	lastSeen time.Time
}

// NewTokenBucketLimiter creates limiter with explicit config and injected clock.
func NewTokenBucketLimiter(clk Clock, cfg Config) *TokenBucketLimiter {
	if clk == nil {
		clk = clock.Real{}
	}
	l := &TokenBucketLimiter{
		def:        normalize(Policy{Rate: cfg.Rate, Burst: cfg.Burst}),
		routes:     make(map[string]Policy, len(cfg.Routes)),
		ttl:        cfg.TTL,
		maxBuckets: max(cfg.MaxBuckets, 0),
		clock:      clk,
		buckets:    make(map[bucketKey]*bucket),
	}
	for route, p := range cfg.Routes {
		l.routes[route] = normalize(p)
	}
	return l
}

func normalize(p Policy) Policy {
	if p.Rate <= 0 {
		p.Rate = 1
	}
	if p.Burst <= 0 {
		p.Burst = 1
	}
	return p
}

// Allow takes a token from the client's bucket for route.
func (l *TokenBucketLimiter) Allow(client, route string) bool {
	now := l.clock.Now()
	l.maybeCleanup(now)
	b := l.bucketFor(bucketKey{client: client, route: route}, now)
	if b == nil {
		return false
	}
	return b.take(now)
}

// PolicyFor returns the policy applied to route.
func (l *TokenBucketLimiter) PolicyFor(route string) Policy {
	if p, ok := l.routes[route]; ok {
		return p
	}
	return l.def
}

// Buckets returns the number of tracked client/route pairs.
func (l *TokenBucketLimiter) Buckets() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.buckets)
}

func (l *TokenBucketLimiter) bucketFor(key bucketKey, now time.Time) *bucket {
	l.mu.RLock()
	b := l.buckets[key]
	l.mu.RUnlock()
	if b != nil {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if b = l.buckets[key]; b != nil {
		return b
	}
	if l.maxBuckets > 0 && len(l.buckets) >= l.maxBuckets {
		return nil
	}

	p := l.PolicyFor(key.route)
	b = &bucket{policy: p, tokens: float64(p.Burst), last: now, lastSeen: now}
	l.buckets[key] = b
	return b
}

func (b *bucket) take(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if dt := now.Sub(b.last); dt > 0 {
		b.tokens = min(b.tokens+dt.Seconds()*b.policy.Rate, float64(b.policy.Burst))
		b.last = now
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// maybeCleanup drops buckets idle for longer than ttl, at most once per
// max(ttl/2, 1m).
func (l *TokenBucketLimiter) maybeCleanup(now time.Time) {
	if l.ttl <= 0 {
		return
	}
	interval := max(l.ttl/2, time.Minute)

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.lastCleanup.IsZero() && now.Sub(l.lastCleanup) < interval {
		return
	}
	l.lastCleanup = now

	for k, b := range l.buckets {
		b.mu.Lock()
		idle := now.Sub(b.lastSeen)
		b.mu.Unlock()
		if idle > l.ttl {
			delete(l.buckets, k)
		}
	}
}
