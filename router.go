package launchpad

import (
	"github.com/gofiber/fiber/v2"

	"github.com/karloscodes/launchpad/openapi"
)

// Router groups routes under a shared prefix and tags before they are
// included into a Server.
type Router struct {
	prefix    string
	tags      []string
	responses map[int]openapi.Response
	routes    []RouterRoute
}

// RouterRoute is a route waiting to be mounted.
type RouterRoute struct {
	Spec       openapi.Route
	Handler    HandlerFunc
	Middleware []fiber.Handler
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithPrefix sets the path prefix of every route in the router.
func WithPrefix(prefix string) RouterOption {
	return func(r *Router) {
		r.prefix = prefix
	}
}

// WithTags sets tags prepended to every route in the router.
func WithTags(tags ...string) RouterOption {
	return func(r *Router) {
		r.tags = append(r.tags, tags...)
	}
}

// WithResponses documents extra responses for every route in the router.
func WithResponses(responses map[int]openapi.Response) RouterOption {
	return func(r *Router) {
		r.responses = mergeResponses(r.responses, responses)
	}
}

// NewRouter creates an empty router.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RouteConfig allows per-route customization.
type RouteConfig struct {
	Tags       []string
	Summary    string
	Responses  map[int]openapi.Response
	Middleware []fiber.Handler
}

// Get registers a GET route named name.
func (r *Router) Get(path, name string, handler HandlerFunc, cfg ...*RouteConfig) {
	r.Add(fiber.MethodGet, path, name, handler, cfg...)
}

// Post registers a POST route.
func (r *Router) Post(path, name string, handler HandlerFunc, cfg ...*RouteConfig) {
	r.Add(fiber.MethodPost, path, name, handler, cfg...)
}

// Put registers a PUT route.
func (r *Router) Put(path, name string, handler HandlerFunc, cfg ...*RouteConfig) {
	r.Add(fiber.MethodPut, path, name, handler, cfg...)
}

// Patch registers a PATCH route.
func (r *Router) Patch(path, name string, handler HandlerFunc, cfg ...*RouteConfig) {
	r.Add(fiber.MethodPatch, path, name, handler, cfg...)
}

// Delete registers a DELETE route.
func (r *Router) Delete(path, name string, handler HandlerFunc, cfg ...*RouteConfig) {
	r.Add(fiber.MethodDelete, path, name, handler, cfg...)
}

// Add registers a route for an arbitrary method.
func (r *Router) Add(method, path, name string, handler HandlerFunc, cfgs ...*RouteConfig) {
	var routeCfg RouteConfig
	if len(cfgs) > 0 && cfgs[0] != nil {
		routeCfg = *cfgs[0]
	}

	tags := make([]string, 0, len(r.tags)+len(routeCfg.Tags))
	tags = append(tags, r.tags...)
	tags = append(tags, routeCfg.Tags...)

	r.routes = append(r.routes, RouterRoute{
		Spec: openapi.Route{
			Method:    method,
			Path:      r.prefix + path,
			Name:      name,
			Tags:      tags,
			Summary:   routeCfg.Summary,
			Responses: mergeResponses(r.responses, routeCfg.Responses),
		},
		Handler:    handler,
		Middleware: routeCfg.Middleware,
	})
}

// Include copies the routes of child into r, applying r's prefix, tags and
// responses on top of the child's.
func (r *Router) Include(child *Router) {
	for _, route := range child.routes {
		r.routes = append(r.routes, r.adopt(route))
	}
}

func (r *Router) adopt(route RouterRoute) RouterRoute {
	tags := make([]string, 0, len(r.tags)+len(route.Spec.Tags))
	tags = append(tags, r.tags...)
	tags = append(tags, route.Spec.Tags...)

	route.Spec.Path = r.prefix + route.Spec.Path
	route.Spec.Tags = tags
	route.Spec.Responses = mergeResponses(r.responses, route.Spec.Responses)
	return route
}

// Routes returns the routes registered so far.
func (r *Router) Routes() []RouterRoute {
	return append([]RouterRoute(nil), r.routes...)
}

// mergeResponses returns base overlaid with override; override wins.
func mergeResponses(base, override map[int]openapi.Response) map[int]openapi.Response {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	merged := make(map[int]openapi.Response, len(base)+len(override))
	for code, resp := range base {
		merged[code] = resp
	}
	for code, resp := range override {
		merged[code] = resp
	}
	return merged
}
