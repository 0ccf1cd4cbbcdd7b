package launchpad

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/karloscodes/launchpad/openapi"
)

// OpenAPIFunc produces the document for a server. Implementations may read
// and write the cache through OpenAPISchema and SetOpenAPISchema.
type OpenAPIFunc func(*Server) (*openapi3.T, error)

// OpenAPI returns the document produced by the active schema function.
// Calls are serialised, so a caching function computes the document once.
func (s *Server) OpenAPI() (*openapi3.T, error) {
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	return s.openapiFunc(s)
}

// SetOpenAPIFunc replaces the schema function. Nil restores DefaultOpenAPI.
func (s *Server) SetOpenAPIFunc(fn OpenAPIFunc) {
	if fn == nil {
		fn = DefaultOpenAPI
	}
	s.schemaMu.Lock()
	s.openapiFunc = fn
	s.schemaMu.Unlock()
}

// OpenAPISchema returns the cached document, nil until computed.
func (s *Server) OpenAPISchema() *openapi3.T {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return s.schema
}

// SetOpenAPISchema stores doc as the cached document.
func (s *Server) SetOpenAPISchema(doc *openapi3.T) {
	s.cacheMu.Lock()
	s.schema = doc
	s.cacheMu.Unlock()
}

// GenerateOpenAPI builds a fresh document from the server's title, version
// and route table, bypassing the cache.
func (s *Server) GenerateOpenAPI() (*openapi3.T, error) {
	return openapi.Generate(openapi.Info{
		Title:   s.Title(),
		Version: s.Version(),
	}, s.Routes(), s.UniqueIDFunc())
}

// DefaultOpenAPI generates the document on first call and caches it.
func DefaultOpenAPI(s *Server) (*openapi3.T, error) {
	if doc := s.OpenAPISchema(); doc != nil {
		return doc, nil
	}
	doc, err := s.GenerateOpenAPI()
	if err != nil {
		return nil, err
	}
	s.SetOpenAPISchema(doc)
	return doc, nil
}

// mountOpenAPI registers the document endpoint and the Swagger UI.
func (s *Server) mountOpenAPI() {
	url := s.cfg.OpenAPIURL
	if url == "" {
		return
	}

	s.app.Get(url, func(c *fiber.Ctx) error {
		doc, err := s.OpenAPI()
		if err != nil {
			s.cfg.Logger.Error("failed to build openapi document", "error", err)
			return err
		}
		return c.JSON(doc)
	})

	docs := strings.TrimRight(s.cfg.DocsURL, "/")
	if docs == "" {
		return
	}

	// The UI handler derives its asset prefix from the first request, so
	// the bare path must never reach it.
	s.app.Get(docs, func(c *fiber.Ctx) error {
		return c.Redirect(docs+"/index.html", fiber.StatusMovedPermanently)
	})
	s.app.Get(docs+"/*", adaptor.HTTPHandlerFunc(httpSwagger.Handler(
		httpSwagger.URL(url),
	)))
}
