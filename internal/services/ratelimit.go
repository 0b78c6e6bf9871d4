package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/reelwise/discovery/internal/config"
)

// RateLimiter enforces a fixed-window per-tier request budget backed by
// Redis. When Redis is unavailable requests are allowed through; losing
// rate limiting briefly is better than serving nothing.
type RateLimiter struct {
	client *redis.Client
	config *config.RateLimitConfig
	logger *logrus.Logger
}

func NewRateLimiter(client *redis.Client, cfg *config.RateLimitConfig, logger *logrus.Logger) *RateLimiter {
	return &RateLimiter{client: client, config: cfg, logger: logger}
}

func (rl *RateLimiter) limitFor(tier string) int {
	switch tier {
	case "premium", "enterprise":
		return rl.config.Premium
	default:
		return rl.config.Default
	}
}

// Allow increments the caller's window counter and reports whether the
// request is within budget, along with the remaining allowance.
func (rl *RateLimiter) Allow(ctx context.Context, userID, tier string) (bool, int) {
	limit := rl.limitFor(tier)
	window := rl.config.Window
	if window <= 0 {
		window = time.Hour
	}

	key := fmt.Sprintf("ratelimit:%s:%d", userID, time.Now().Unix()/int64(window.Seconds()))
	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		rl.logger.WithError(err).Warn("Rate limit counter unavailable, allowing request")
		return true, limit
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, key, window).Err(); err != nil {
			rl.logger.WithError(err).Warn("Failed to set rate limit window expiry")
		}
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return int(count) <= limit, remaining
}
