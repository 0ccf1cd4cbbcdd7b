package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger emits one structured line per request. Health checks and
// metrics scrapes are skipped.
func RequestLogger(logger Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		path := c.Path()
		if strings.Contains(path, "health-check") || path == "/metrics" {
			return err
		}

		status := c.Response().StatusCode()
		if err != nil {
			// The error handler has not run yet.
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		logger.Info("http request",
			"method", c.Method(),
			"path", path,
			"status", status,
			"duration", duration,
			"ip", c.IP(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		)

		return err
	}
}
