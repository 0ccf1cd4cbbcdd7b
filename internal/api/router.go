// Package api holds the HTTP routes mounted under the versioned API prefix.
package api

import (
	"github.com/karloscodes/launchpad"
)

// NewRouter returns the API router. Every route carries at least one tag,
// the first of which prefixes its operation id.
func NewRouter() *launchpad.Router {
	router := launchpad.NewRouter()
	router.Include(utilsRouter())
	return router
}

func utilsRouter() *launchpad.Router {
	r := launchpad.NewRouter(launchpad.WithPrefix("/utils"), launchpad.WithTags("utils"))
	r.Get("/health-check/", "health_check", healthCheck)
	return r
}

func healthCheck(c *launchpad.Context) error {
	return c.JSON(true)
}
