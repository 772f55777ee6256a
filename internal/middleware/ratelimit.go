package middleware

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"platefeed/internal/observability"
)

// FailPolicy defines the behavior when the rate limit store is unreachable.
type FailPolicy int

const (
	// FailOpen lets the request through when the counter cannot be read.
	FailOpen FailPolicy = iota
	// FailClosed rejects the request with 503 when the counter cannot be read.
	FailClosed
)

// limiterBypassEnvs lists the APP_ENV values where per-route limits are
// disabled, so local development and load testing are never throttled. An
// unset APP_ENV counts as development.
var limiterBypassEnvs = map[string]bool{
	"":            true,
	"development": true,
	"test":        true,
	"stress":      true,
}

// CheckRateLimit reports whether one more request for resource/id fits inside
// the fixed window. The counter lives in Redis keyed by resource and caller,
// and expires with the window.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if limiterBypassEnvs[os.Getenv("APP_ENV")] {
		return true, nil
	}
	if rdb == nil {
		return false, errors.New("rate limit store unavailable")
	}

	key := fmt.Sprintf("platefeed:ratelimit:%s:%s", resource, id)
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		observability.RedisErrorRate.WithLabelValues("incr").Inc()
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// RateLimit returns a Fiber middleware enforcing limit requests per window,
// keyed by the authenticated user when present and by remote IP otherwise.
// The store failure policy defaults to FailOpen.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit store failure policy. The
// optional name labels the counter; without one the request path is used.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		if uid := c.Locals("userID"); uid != nil {
			id = fmt.Sprintf("user:%v", uid)
		} else {
			id = "ip:" + c.IP()
		}

		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unreachable, failing closed",
					"resource", resource, "error", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			Logger.WarnContext(c.UserContext(), "rate limit store unreachable, failing open",
				"resource", resource, "error", err)
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
