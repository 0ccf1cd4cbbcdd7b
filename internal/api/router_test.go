package api

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karloscodes/launchpad"
	"github.com/karloscodes/launchpad/openapi"
	"github.com/karloscodes/launchpad/testsupport"
)

func TestNewRouter_Routes(t *testing.T) {
	routes := NewRouter().Routes()
	require.Len(t, routes, 1)

	spec := routes[0].Spec
	assert.Equal(t, fiber.MethodGet, spec.Method)
	assert.Equal(t, "/utils/health-check/", spec.Path)
	assert.Equal(t, "utils-health_check", openapi.TaggedUniqueID(spec))
}

func TestHealthCheck(t *testing.T) {
	ts := testsupport.NewTestServer(t, testsupport.TestServerOptions{
		Routers: []testsupport.RouterMount{{
			Router:  NewRouter(),
			Options: launchpad.IncludeOptions{Prefix: "/api/v1"},
		}},
	})

	var healthy bool
	resp := ts.GetJSON("/api/v1/utils/health-check/", &healthy)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, healthy)
}
