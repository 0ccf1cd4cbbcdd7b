package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
)

// Helmet sets security headers suited to a JSON API consumed cross-origin.
// Resources are readable cross-origin; CORS still decides which origins get
// response access.
func Helmet() fiber.Handler {
	return helmet.New(helmet.Config{
		ReferrerPolicy:            "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		CrossOriginEmbedderPolicy: "unsafe-none",
	})
}
