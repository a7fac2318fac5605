package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitPolicy configures RateLimit for one resource.
type RateLimitPolicy struct {
	Resource string
	Limit    int
	Window   time.Duration
	// Bypass disables the limiter, for local and test environments.
	Bypass bool
}

// CheckRateLimit checks if a resource has exceeded its rate limit.
// Returns true if allowed, false if limit exceeded.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	// INCR and set EXPIRE if new
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(limit), nil
}

// RateLimit returns a Fiber middleware enforcing policy.Limit requests per policy.Window
// for each remote IP. Requests proceed when Redis is unavailable.
func RateLimit(rdb *redis.Client, policy RateLimitPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if policy.Bypass {
			return c.Next()
		}

		id := "ip:" + c.IP()
		allowed, err := CheckRateLimit(c.UserContext(), rdb, policy.Resource, id, policy.Limit, policy.Window)
		if err != nil {
			Logger.WarnContext(c.UserContext(), "rate limit unavailable, failing open",
				slog.String("resource", policy.Resource),
				slog.String("error", err.Error()),
			)
			return c.Next()
		}

		if !allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(policy.Window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
