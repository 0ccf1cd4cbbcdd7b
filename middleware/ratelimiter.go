package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/utils"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	Max      int
	Duration time.Duration
	Skip     func(*fiber.Ctx) bool
	Storage  fiber.Storage // Optional: shared storage for multi-instance deployments
}

// RateLimiterOption defines a function to modify RateLimiterConfig.
type RateLimiterOption func(*RateLimiterConfig)

// WithMax sets the maximum number of requests allowed within the time window.
func WithMax(max int) RateLimiterOption {
	return func(cfg *RateLimiterConfig) {
		cfg.Max = max
	}
}

// WithDuration sets the duration for the rate limit window.
func WithDuration(duration time.Duration) RateLimiterOption {
	return func(cfg *RateLimiterConfig) {
		cfg.Duration = duration
	}
}

// WithSkip configures a predicate to skip rate limiting when it returns true.
func WithSkip(skip func(*fiber.Ctx) bool) RateLimiterOption {
	return func(cfg *RateLimiterConfig) {
		cfg.Skip = skip
	}
}

// WithStorage configures persistent storage for distributed rate limiting.
func WithStorage(storage fiber.Storage) RateLimiterOption {
	return func(cfg *RateLimiterConfig) {
		cfg.Storage = storage
	}
}

// RateLimiter limits requests per client IP, 50 per second by default.
// Rejections use the same {"detail": ...} body as every other error.
func RateLimiter(options ...RateLimiterOption) fiber.Handler {
	cfg := RateLimiterConfig{
		Max:      50,
		Duration: time.Second,
	}

	for _, option := range options {
		option(&cfg)
	}

	if cfg.Max <= 0 {
		cfg.Max = 50
	}
	if cfg.Duration <= 0 {
		cfg.Duration = time.Second
	}

	retryAfter := strconv.Itoa(int(cfg.Duration.Round(time.Second).Seconds()))
	if retryAfter == "0" {
		retryAfter = "1"
	}

	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Duration,
		Storage:    cfg.Storage, // nil = in-memory
		KeyGenerator: func(c *fiber.Ctx) string {
			// Copy: fiber reuses the underlying buffer after the request.
			return utils.CopyString(c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderRetryAfter, retryAfter)
			c.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
			c.Set("X-RateLimit-Remaining", "0")

			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"detail": "Rate limit exceeded. Please try again later.",
			})
		},
		Next: func(c *fiber.Ctx) bool {
			if cfg.Skip != nil {
				return cfg.Skip(c)
			}
			return false
		},
	})
}
