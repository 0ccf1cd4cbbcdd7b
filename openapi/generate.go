package openapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Version is the OpenAPI version written into generated documents.
const Version = "3.0.3"

// Info carries the document metadata.
type Info struct {
	Title   string
	Version string
}

// Generate builds a document describing routes. Components.Schemas is always
// initialised so callers can add definitions without nil checks.
func Generate(info Info, routes []Route, uniqueID UniqueIDFunc) (*openapi3.T, error) {
	if uniqueID == nil {
		uniqueID = DefaultUniqueID
	}

	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:   info.Title,
			Version: info.Version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{},
		},
	}

	seen := make(map[string]string, len(routes))
	for _, route := range routes {
		op, err := operation(route, uniqueID)
		if err != nil {
			return nil, err
		}
		where := route.Method + " " + route.Path
		if prev, dup := seen[op.OperationID]; dup {
			return nil, fmt.Errorf("openapi: duplicate operation id %q for %s and %s", op.OperationID, prev, where)
		}
		seen[op.OperationID] = where

		path, params, err := templatePath(route.Path)
		if err != nil {
			return nil, err
		}
		for _, name := range params {
			op.AddParameter(openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()))
		}

		item := doc.Paths.Value(path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(path, item)
		}
		item.SetOperation(strings.ToUpper(route.Method), op)
	}

	return doc, nil
}

func operation(route Route, uniqueID UniqueIDFunc) (*openapi3.Operation, error) {
	if route.Name == "" {
		return nil, fmt.Errorf("openapi: route %s %s has no name", route.Method, route.Path)
	}

	op := openapi3.NewOperation()
	op.OperationID = uniqueID(route)
	op.Tags = append([]string(nil), route.Tags...)
	op.Summary = route.Summary
	if op.Summary == "" {
		op.Summary = Summarize(route.Name)
	}

	op.Responses = openapi3.NewResponses(openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription("Successful Response").
			WithJSONSchema(openapi3.NewSchema()),
	}))

	codes := make([]int, 0, len(route.Responses))
	for code := range route.Responses {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		extra := route.Responses[code]
		resp := openapi3.NewResponse().WithDescription(extra.Description)
		if extra.SchemaRef != "" {
			resp.WithContent(openapi3.NewContentWithJSONSchemaRef(openapi3.NewSchemaRef(extra.SchemaRef, nil)))
		}
		op.Responses.Set(strconv.Itoa(code), &openapi3.ResponseRef{Value: resp})
	}

	return op, nil
}

// ValidatePath reports whether a fiber route path can be documented.
// Optional parameters are rejected: fiber also serves the path without the
// segment, which an OpenAPI path template cannot express.
func ValidatePath(path string) error {
	_, _, err := templatePath(path)
	return err
}

// templatePath converts fiber path syntax to OpenAPI templates:
// "/items/:id" becomes "/items/{id}" and a wildcard becomes "{path}".
// Several wildcards are numbered "{path1}", "{path2}" like fiber's *1, *2.
func templatePath(path string) (string, []string, error) {
	segments := strings.Split(path, "/")

	greedy := 0
	for _, seg := range segments {
		if seg == "*" || seg == "+" {
			greedy++
		}
	}

	var params []string
	n := 0
	for i, seg := range segments {
		switch {
		case strings.HasPrefix(seg, ":"):
			name := strings.TrimPrefix(seg, ":")
			if strings.HasSuffix(name, "?") {
				return "", nil, fmt.Errorf("openapi: optional parameter %q in %s cannot be documented, register the path with and without it", seg, path)
			}
			segments[i] = "{" + name + "}"
			params = append(params, name)
		case seg == "*" || seg == "+":
			name := "path"
			if greedy > 1 {
				n++
				name += strconv.Itoa(n)
			}
			segments[i] = "{" + name + "}"
			params = append(params, name)
		}
	}
	return strings.Join(segments, "/"), params, nil
}

// Summarize turns a route name such as "read_item" into "Read Item".
func Summarize(name string) string {
	// Casers are stateful, one per call.
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}
