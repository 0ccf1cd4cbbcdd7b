package launchpad

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/karloscodes/launchpad/telemetry"
)

// HTTPError is the JSON body of every error response, documented in
// OpenAPI as the HTTPException schema.
type HTTPError struct {
	Detail string `json:"detail"`
}

// DefaultErrorHandler renders errors as {"detail": "..."}.
// Status comes from *fiber.Error, anything else is a 500 whose message is not
// exposed. Server errors are reported to Sentry when a hub is attached.
func DefaultErrorHandler(logger Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		detail := utils.StatusMessage(code)

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			detail = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				"error", err,
				"status", code,
				"path", c.Path(),
				"method", c.Method(),
			)
			telemetry.CaptureError(c, err)
		} else {
			logger.Debug("request rejected",
				"status", code,
				"detail", detail,
				"path", c.Path(),
			)
		}

		return c.Status(code).JSON(HTTPError{Detail: detail})
	}
}
