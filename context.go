package launchpad

import (
	"github.com/gofiber/fiber/v2"

	"github.com/karloscodes/launchpad/openapi"
)

// Context provides request-scoped access to application dependencies.
// It embeds fiber.Ctx to provide all HTTP request/response methods while
// adding direct field access to logger, config and the matched route.
type Context struct {
	*fiber.Ctx
	Logger Logger
	Config Config

	// Route is the descriptor the request matched, as documented in OpenAPI.
	Route openapi.Route
}

// HandlerFunc is the signature for launchpad request handlers.
type HandlerFunc func(*Context) error

// NewHTTPError builds an error the default error handler renders as
// {"detail": detail} with the given status.
func NewHTTPError(status int, detail string) error {
	return fiber.NewError(status, detail)
}
