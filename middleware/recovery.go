package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
)

// Recover turns panics into errors for the error handler and logs the
// panic value with its stack.
func Recover(logger Logger) fiber.Handler {
	return fiberrecover.New(fiberrecover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			logger.Error("panic recovered",
				"panic", e,
				"method", c.Method(),
				"path", c.Path(),
				"stack", string(debug.Stack()),
			)
		},
	})
}
