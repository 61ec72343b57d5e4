package app

import (
	"github.com/EdilKulzhabay/courier/internal/clock"
	"github.com/EdilKulzhabay/courier/internal/config"
	"github.com/EdilKulzhabay/courier/internal/http/middleware/ratelimit"
	"github.com/EdilKulzhabay/courier/internal/logx"
	"github.com/EdilKulzhabay/courier/internal/metrics"
)

func newRateLimiter(cfg *config.Config, clk ratelimit.Clock) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.NewNopLimiter()
	}
	return ratelimit.NewTokenBucketLimiter(clk, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
		Routes: map[string]ratelimit.Policy{
			dragRoute: {Rate: rl.Rate * dragFactor, Burst: rl.Burst * dragFactor},
		},
	})
}

// Panel drags are reported per gesture step, far more often than any other call.
const (
	dragRoute  = "POST /offer/panel/drag"
	dragFactor = 4
)

func newRateLimitClock(clk clock.Clock) ratelimit.Clock {
	return clk
}

func newRateLimitMiddleware(logger logx.Logger, set *metrics.Set, limiter ratelimit.Limiter) *ratelimit.Middleware {
	return ratelimit.New(logger.With(logx.Component("ratelimit")), set.RateLimitExceeded, limiter)
}
