// Package app bootstraps the backend: telemetry, the framework application,
// its OpenAPI document, the cross-origin policy and the API router.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"

	"github.com/karloscodes/launchpad"
	"github.com/karloscodes/launchpad/config"
	"github.com/karloscodes/launchpad/internal/api"
	"github.com/karloscodes/launchpad/openapi"
	"github.com/karloscodes/launchpad/telemetry"
)

// HTTPExceptionRef references the error body schema injected into the document.
const HTTPExceptionRef = "#/components/schemas/HTTPException"

// Options configure New.
type Options struct {
	Settings *config.Settings
	Logger   launchpad.Logger

	// Router is mounted under Settings.APIV1Str. Defaults to api.NewRouter().
	Router *launchpad.Router

	// ServerConfig overrides the framework defaults; metadata fields are
	// always taken from Settings.
	ServerConfig *launchpad.ServerConfig
}

// New builds the application. Startup errors are returned, never logged
// and swallowed.
func New(opts Options) (*launchpad.Application, error) {
	if opts.Settings == nil {
		return nil, errors.New("app: settings are required")
	}
	if opts.Logger == nil {
		return nil, errors.New("app: logger is required")
	}
	settings := opts.Settings

	if settings.TelemetryEnabled() {
		err := telemetry.Init(telemetry.Options{
			DSN:         settings.SentryDSN,
			Environment: settings.Environment,
			Release:     settings.Version,
		})
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		opts.Logger.Info("telemetry enabled", "environment", settings.Environment)
	}

	serverCfg := opts.ServerConfig
	if serverCfg == nil {
		serverCfg = launchpad.DefaultServerConfig()
	}
	serverCfg.Title = settings.ProjectName
	serverCfg.Version = settings.Version
	serverCfg.OpenAPIURL = settings.OpenAPIURL()
	serverCfg.DocsURL = settings.APIV1Str + "/docs"
	serverCfg.GenerateUniqueID = openapi.TaggedUniqueID
	if settings.RateLimitMax > 0 {
		serverCfg.RateLimitMax = settings.RateLimitMax
	}

	application, err := launchpad.NewApplication(launchpad.ApplicationOptions{
		Config:       settings,
		Logger:       opts.Logger,
		ServerConfig: serverCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	server := application.Server
	server.SetOpenAPIFunc(customOpenAPI)

	if settings.TelemetryEnabled() {
		server.Use("sentry", telemetry.Middleware())
		application.OnShutdown(func(_ context.Context) {
			telemetry.Flush(2 * time.Second)
		})
	}

	if origins := settings.AllCORSOrigins(); len(origins) > 0 {
		server.EnableCORS(origins)
	}

	router := opts.Router
	if router == nil {
		router = api.NewRouter()
	}
	err = server.IncludeRouter(router, launchpad.IncludeOptions{
		Prefix: settings.APIV1Str,
		Responses: map[int]openapi.Response{
			fiber.StatusBadRequest: {
				Description: "Bad Request",
				SchemaRef:   HTTPExceptionRef,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("app: include api router: %w", err)
	}

	return application, nil
}

// customOpenAPI returns the cached document, or generates one with the
// HTTPException schema added and caches it.
func customOpenAPI(s *launchpad.Server) (*openapi3.T, error) {
	if doc := s.OpenAPISchema(); doc != nil {
		return doc, nil
	}

	doc, err := s.GenerateOpenAPI()
	if err != nil {
		return nil, err
	}
	doc.Components.Schemas["HTTPException"] = openapi3.NewSchemaRef("", HTTPExceptionSchema())

	// Bind the route-level $refs to the injected schema so the document
	// validates in memory, not only after a JSON round trip.
	if err := openapi3.NewLoader().ResolveRefsIn(doc, nil); err != nil {
		return nil, fmt.Errorf("app: resolve openapi refs: %w", err)
	}

	s.SetOpenAPISchema(doc)
	return doc, nil
}

// HTTPExceptionSchema describes the {"detail": "..."} error body.
func HTTPExceptionSchema() *openapi3.Schema {
	return &openapi3.Schema{
		Type: &openapi3.Types{openapi3.TypeObject},
		Properties: openapi3.Schemas{
			"detail": openapi3.NewSchemaRef("", openapi3.NewStringSchema()),
		},
		Required: []string{"detail"},
	}
}
