// Package launchpad is a small API framework built on GoFiber.
//
// It provides:
//
//   - A Server owning the fiber app, a named global middleware chain and a
//     route table that doubles as the source of the OpenAPI document
//   - Routers grouping routes under a prefix, tags and documented responses
//   - Single handler signature: func(*Context) error
//   - A cached OpenAPI 3 document with an overridable schema function
//   - JSON error bodies of the form {"detail": "..."}
//   - Application lifecycle management with graceful shutdown
//
// # Routing
//
// Every route has a name and at least one tag. Tags group operations in the
// document, names become operation ids:
//
//	r := launchpad.NewRouter(launchpad.WithPrefix("/items"), launchpad.WithTags("items"))
//	r.Get("/:id", "read_item", func(c *launchpad.Context) error {
//		return c.JSON(fiber.Map{"id": c.Params("id")})
//	})
//
//	err := server.IncludeRouter(r, launchpad.IncludeOptions{Prefix: "/api/v1"})
//
// Routes are mounted on the fiber app the first time App or Listen is
// called, so middleware registered during bootstrap applies to all of them.
//
// # OpenAPI
//
// OpenAPI returns the document produced by the active schema function.
// DefaultOpenAPI generates it once and caches it; SetOpenAPIFunc installs a
// replacement that may post-process the generated document:
//
//	server.SetOpenAPIFunc(func(s *launchpad.Server) (*openapi3.T, error) {
//		if doc := s.OpenAPISchema(); doc != nil {
//			return doc, nil
//		}
//		doc, err := s.GenerateOpenAPI()
//		if err != nil {
//			return nil, err
//		}
//		s.SetOpenAPISchema(doc)
//		return doc, nil
//	})
//
// # Logging
//
// Components log through the Logger interface:
//
//	logger := launchpad.NewSlogAdapter(launchpad.NewLogger(cfg, nil))
package launchpad
