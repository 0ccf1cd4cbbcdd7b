package launchpad

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	lpmiddleware "github.com/karloscodes/launchpad/middleware"
	"github.com/karloscodes/launchpad/openapi"
)

// ServerConfig provides server configuration with sensible defaults.
type ServerConfig struct {
	// Core dependencies (required)
	Config Config
	Logger Logger

	// Application metadata, used for the OpenAPI document.
	Title   string
	Version string

	// OpenAPIURL is where the document is served. Empty disables it.
	OpenAPIURL string

	// DocsURL serves a Swagger UI for OpenAPIURL. Empty disables it.
	DocsURL string

	// GenerateUniqueID derives operation ids. Defaults to openapi.DefaultUniqueID.
	GenerateUniqueID openapi.UniqueIDFunc

	// Fiber configuration
	ErrorHandler   fiber.ErrorHandler
	Concurrency    int
	ProxyHeader    string
	TrustedProxies []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	// Middleware configuration
	EnableRequestID     bool
	EnableRecover       bool
	EnableHelmet        bool
	EnableCompress      bool
	EnableRequestLogger bool
	EnableMetrics       bool
	MetricsPath         string

	// RateLimitMax is the per-second request budget per IP. Zero disables it.
	// The limiter is installed when the server mounts, after every Use.
	RateLimitMax int
}

// DefaultServerConfig returns a configuration with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Title:            "Launchpad",
		Version:          "0.1.0",
		OpenAPIURL:       "/openapi.json",
		DocsURL:          "/docs",
		GenerateUniqueID: openapi.DefaultUniqueID,

		Concurrency:  256 * 1024,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,

		EnableRequestID:     true,
		EnableRecover:       true,
		EnableHelmet:        true,
		EnableCompress:      true,
		EnableRequestLogger: true,
		EnableMetrics:       true,
		MetricsPath:         "/metrics",
	}
}

// IncludeOptions control how a router is attached to the server.
type IncludeOptions struct {
	// Prefix is prepended to every route path.
	Prefix string

	// Tags are prepended to every route's tags.
	Tags []string

	// Responses are documented on every route. Route-level entries win.
	Responses map[int]openapi.Response
}

// Server is the process-wide application: the fiber app, its middleware
// chain, the route table and the cached OpenAPI document.
type Server struct {
	app *fiber.App
	cfg *ServerConfig

	mu          sync.Mutex
	routes      []openapi.Route
	pending     []RouterRoute
	middleware  []string
	corsOrigins []string
	mounted     bool

	// schemaMu serialises the schema function so the first computation
	// happens once; cacheMu guards the cached document itself.
	schemaMu    sync.Mutex
	openapiFunc OpenAPIFunc
	cacheMu     sync.RWMutex
	schema      *openapi3.T
}

// NewServer creates a server with the provided configuration.
func NewServer(cfg *ServerConfig) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("launchpad: config is required")
	}
	if cfg.Config == nil {
		return nil, fmt.Errorf("launchpad: runtime config is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("launchpad: logger is required")
	}
	if cfg.GenerateUniqueID == nil {
		cfg.GenerateUniqueID = openapi.DefaultUniqueID
	}

	fiberCfg := fiber.Config{
		AppName:               cfg.Title,
		DisableDefaultDate:    true,
		DisableStartupMessage: true,
		Concurrency:           cfg.Concurrency,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
	}

	if cfg.ProxyHeader != "" {
		fiberCfg.ProxyHeader = cfg.ProxyHeader
	}
	if len(cfg.TrustedProxies) > 0 {
		fiberCfg.EnableTrustedProxyCheck = true
		fiberCfg.TrustedProxies = cfg.TrustedProxies
	}

	if cfg.ErrorHandler != nil {
		fiberCfg.ErrorHandler = cfg.ErrorHandler
	} else {
		fiberCfg.ErrorHandler = DefaultErrorHandler(cfg.Logger)
	}

	server := &Server{
		app:         fiber.New(fiberCfg),
		cfg:         cfg,
		openapiFunc: DefaultOpenAPI,
	}

	server.setupGlobalMiddleware()

	return server, nil
}

// setupGlobalMiddleware applies standard middleware to all routes.
func (s *Server) setupGlobalMiddleware() {
	if s.cfg.EnableRequestID {
		s.Use("requestid", requestid.New())
	}

	if s.cfg.EnableRecover {
		s.Use("recover", lpmiddleware.Recover(s.cfg.Logger))
	}

	if s.cfg.EnableHelmet {
		s.Use("helmet", lpmiddleware.Helmet())
	}

	if s.cfg.EnableCompress {
		s.Use("compress", compress.New(compress.Config{
			Level: compress.LevelDefault,
		}))
	}

	if s.cfg.EnableMetrics {
		s.Use("metrics", lpmiddleware.Metrics())
	}

	if s.cfg.EnableRequestLogger {
		s.Use("logger", lpmiddleware.RequestLogger(s.cfg.Logger))
	}
}

// Use registers a named global middleware. Middleware must be registered
// before the server is mounted to apply to every route.
func (s *Server) Use(name string, handler fiber.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mounted {
		s.cfg.Logger.Warn("middleware registered after mount only applies to later routes", "middleware", name)
	}
	s.middleware = append(s.middleware, name)
	s.app.Use(handler)
}

// Middleware returns the names of the registered global middleware in order.
func (s *Server) Middleware() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.middleware...)
}

// HasMiddleware reports whether a middleware with the given name is registered.
func (s *Server) HasMiddleware(name string) bool {
	for _, m := range s.Middleware() {
		if m == name {
			return true
		}
	}
	return false
}

// EnableCORS registers cross-origin middleware for exactly origins, with
// credentials, all methods and all requested headers allowed.
// An empty list registers nothing.
func (s *Server) EnableCORS(origins []string) {
	if len(origins) == 0 {
		return
	}
	s.mu.Lock()
	s.corsOrigins = append([]string(nil), origins...)
	s.mu.Unlock()

	s.Use("cors", lpmiddleware.CORS(origins))
}

// CORSOrigins returns the origins passed to EnableCORS, nil when disabled.
func (s *Server) CORSOrigins() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.corsOrigins == nil {
		return nil
	}
	return append([]string(nil), s.corsOrigins...)
}

// IncludeRouter attaches every route of router. Routes without tags, without
// a name, with a path OpenAPI cannot template, or whose operation id collides
// with an existing route are rejected.
func (s *Server) IncludeRouter(router *Router, opts IncludeOptions) error {
	parent := NewRouter(WithPrefix(opts.Prefix), WithTags(opts.Tags...), WithResponses(opts.Responses))
	parent.Include(router)

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make(map[string]bool, len(s.routes))
	for _, route := range s.routes {
		ids[s.cfg.GenerateUniqueID(route)] = true
	}

	accepted := make([]RouterRoute, 0, len(parent.routes))
	for _, route := range parent.routes {
		spec := route.Spec
		if spec.Name == "" {
			return fmt.Errorf("launchpad: route %s %s has no name", spec.Method, spec.Path)
		}
		if len(spec.Tags) == 0 {
			return fmt.Errorf("launchpad: route %s %s (%s) has no tags", spec.Method, spec.Path, spec.Name)
		}
		if err := openapi.ValidatePath(spec.Path); err != nil {
			return fmt.Errorf("launchpad: route %s %s (%s): %w", spec.Method, spec.Path, spec.Name, err)
		}
		id := s.cfg.GenerateUniqueID(spec)
		if ids[id] {
			return fmt.Errorf("launchpad: route %s %s duplicates operation id %q", spec.Method, spec.Path, id)
		}
		ids[id] = true
		accepted = append(accepted, route)
	}

	for _, route := range accepted {
		s.routes = append(s.routes, route.Spec)
		if s.mounted {
			s.registerRoute(route)
		} else {
			s.pending = append(s.pending, route)
		}
	}
	return nil
}

// Routes returns a copy of the route table.
func (s *Server) Routes() []openapi.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]openapi.Route(nil), s.routes...)
}

// mount registers built-in endpoints and pending routes on the fiber app.
// Called once, on first access to the underlying app.
func (s *Server) mount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mounted {
		return
	}
	s.mounted = true

	// Last in the chain, so CORS headers also reach 429 responses and
	// preflights answered by CORS never count against the budget.
	if s.cfg.RateLimitMax > 0 {
		s.middleware = append(s.middleware, "ratelimit")
		s.app.Use(lpmiddleware.RateLimiter(lpmiddleware.WithMax(s.cfg.RateLimitMax)))
	}

	if s.cfg.EnableMetrics && s.cfg.MetricsPath != "" {
		s.app.Get(s.cfg.MetricsPath, lpmiddleware.MetricsHandler())
	}
	s.mountOpenAPI()

	for _, route := range s.pending {
		s.registerRoute(route)
	}
	s.pending = nil
}

func (s *Server) registerRoute(route RouterRoute) {
	handlers := make([]fiber.Handler, 0, len(route.Middleware)+1)
	handlers = append(handlers, route.Middleware...)
	handlers = append(handlers, s.wrapHandler(route.Spec, route.Handler))

	s.app.Add(route.Spec.Method, route.Spec.Path, handlers...)
}

// wrapHandler converts a launchpad HandlerFunc to a Fiber handler.
func (s *Server) wrapHandler(spec openapi.Route, handler HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return handler(&Context{
			Ctx:    c,
			Logger: s.cfg.Logger,
			Config: s.cfg.Config,
			Route:  spec,
		})
	}
}

// App returns the underlying Fiber application, mounting routes on first use.
func (s *Server) App() *fiber.App {
	s.mount()
	return s.app
}

// Title returns the application title.
func (s *Server) Title() string { return s.cfg.Title }

// Version returns the application version.
func (s *Server) Version() string { return s.cfg.Version }

// OpenAPIURL returns the path the document is served at.
func (s *Server) OpenAPIURL() string { return s.cfg.OpenAPIURL }

// UniqueIDFunc returns the operation id function.
func (s *Server) UniqueIDFunc() openapi.UniqueIDFunc { return s.cfg.GenerateUniqueID }

// GetLogger returns the logger.
func (s *Server) GetLogger() Logger { return s.cfg.Logger }

// Listen serves HTTP on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	app := s.App()
	s.cfg.Logger.Info("Server started and ready to accept requests", "addr", addr)
	return app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- s.app.Shutdown()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
