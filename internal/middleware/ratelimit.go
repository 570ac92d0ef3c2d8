package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"movie-nexus-api/internal/cache"
	"movie-nexus-api/internal/config"
)

var rateLimited = promauto.NewCounter(prometheus.CounterOpts{
	Name: "nexus_rate_limited_requests_total",
	Help: "Requests rejected by the per-IP rate limiter.",
})

// RateLimiter provides Redis-backed fixed window rate limiting per client IP.
type RateLimiter struct {
	rdb       redis.UniversalClient
	maxReqs   int
	window    time.Duration
	opTimeout time.Duration
}

// NewRateLimiter creates a rate limiter.
func NewRateLimiter(rdb redis.UniversalClient, cfg config.RateLimitConfig, opTimeout time.Duration) *RateLimiter {
	if opTimeout <= 0 {
		opTimeout = 200 * time.Millisecond
	}
	return &RateLimiter{
		rdb:       rdb,
		maxReqs:   cfg.Max,
		window:    time.Duration(cfg.WindowSec) * time.Second,
		opTimeout: opTimeout,
	}
}

// Handler returns a Fiber middleware handler for rate limiting.
// Redis failures let the request through.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		key := cache.Prefix + "ratelimit:" + c.IP()
		ctx, cancel := context.WithTimeout(c.Context(), rl.opTimeout)
		defer cancel()

		count, err := rl.rdb.Incr(ctx, key).Result()
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err)
			return c.Next()
		}

		ttl, err := rl.rdb.TTL(ctx, key).Result()
		switch {
		case err != nil:
			ttl = rl.window
		case ttl < 0:
			// First request of the window, or a counter whose EXPIRE never landed.
			if err := rl.rdb.Expire(ctx, key, rl.window).Err(); err != nil {
				slog.Warn("failed to set rate limit window", "key", key, "error", err)
			}
			ttl = rl.window
		}

		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.maxReqs))
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, int64(rl.maxReqs)-count)))
		c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", int(ttl.Seconds())))

		if int(count) > rl.maxReqs {
			rateLimited.Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "rate limit exceeded",
				"retry_after": int(ttl.Seconds()),
			})
		}

		return c.Next()
	}
}
