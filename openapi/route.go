// Package openapi builds OpenAPI 3 documents from a launchpad route table.
//
// The package knows nothing about HTTP serving. It turns route descriptors
// into a kin-openapi document and provides the functions used to derive
// operation identifiers, which generated frontend clients use as symbol names.
package openapi

import (
	"fmt"
	"regexp"
	"strings"
)

// Response documents an additional response a route may produce.
type Response struct {
	// Description is required by the OpenAPI format, e.g. "Bad Request".
	Description string

	// SchemaRef is an optional JSON schema reference for an application/json
	// body, e.g. "#/components/schemas/HTTPException".
	SchemaRef string
}

// Route describes one registered endpoint.
type Route struct {
	Method  string
	Path    string
	Name    string
	Tags    []string
	Summary string

	// Responses are extra documented responses keyed by status code.
	Responses map[int]Response
}

// UniqueIDFunc derives the operationId of a route.
type UniqueIDFunc func(Route) string

// TaggedUniqueID returns "{first tag}-{name}".
// The route must carry at least one tag; an empty tag list panics.
func TaggedUniqueID(route Route) string {
	return fmt.Sprintf("%s-%s", route.Tags[0], route.Name)
}

var nonWord = regexp.MustCompile(`\W`)

// DefaultUniqueID derives an identifier from the name, path and method,
// e.g. "read_item_items__id__get".
func DefaultUniqueID(route Route) string {
	id := nonWord.ReplaceAllString(route.Name+route.Path, "_")
	return id + "_" + strings.ToLower(route.Method)
}
