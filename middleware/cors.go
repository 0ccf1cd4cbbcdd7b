package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// AllMethods is every method a browser may preflight.
var AllMethods = []string{
	fiber.MethodGet,
	fiber.MethodPost,
	fiber.MethodHead,
	fiber.MethodPut,
	fiber.MethodDelete,
	fiber.MethodPatch,
	fiber.MethodOptions,
}

// CORSConfig builds the cors configuration for origins: credentials allowed,
// every method allowed, requested headers mirrored back.
func CORSConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     strings.Join(AllMethods, ","),
		AllowHeaders:     "", // empty mirrors Access-Control-Request-Headers
		AllowCredentials: true,
	}
}

// CORS permits cross-origin requests from exactly origins. Origins must be
// explicit; fiber rejects a wildcard combined with credentials.
func CORS(origins []string) fiber.Handler {
	return cors.New(CORSConfig(origins))
}
