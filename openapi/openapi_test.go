package openapi

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaggedUniqueID(t *testing.T) {
	tests := []struct {
		name  string
		route Route
		want  string
	}{
		{"single tag", Route{Name: "read_item", Tags: []string{"items"}}, "items-read_item"},
		{"first tag wins", Route{Name: "login_access_token", Tags: []string{"login", "auth"}}, "login-login_access_token"},
		{"empty name", Route{Tags: []string{"utils"}}, "utils-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TaggedUniqueID(tt.route))
		})
	}
}

func TestTaggedUniqueID_PanicsWithoutTags(t *testing.T) {
	assert.Panics(t, func() {
		TaggedUniqueID(Route{Name: "orphan"})
	})
}

func TestDefaultUniqueID(t *testing.T) {
	id := DefaultUniqueID(Route{Method: "GET", Path: "/items/:id", Name: "read_item"})
	assert.Equal(t, "read_item_items__id_get", id)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "Health Check", Summarize("health_check"))
	assert.Equal(t, "Read Item", Summarize("read_item"))
}

func TestGenerate(t *testing.T) {
	routes := []Route{
		{Method: "GET", Path: "/api/v1/items/", Name: "read_items", Tags: []string{"items"}},
		{Method: "GET", Path: "/api/v1/items/:id", Name: "read_item", Tags: []string{"items"}},
		{Method: "DELETE", Path: "/api/v1/items/:id", Name: "delete_item", Tags: []string{"items"}, Summary: "Remove an item"},
	}

	doc, err := Generate(Info{Title: "Backend", Version: "1.2.3"}, routes, TaggedUniqueID)
	require.NoError(t, err)

	assert.Equal(t, Version, doc.OpenAPI)
	assert.Equal(t, "Backend", doc.Info.Title)
	assert.Equal(t, "1.2.3", doc.Info.Version)
	require.NotNil(t, doc.Components)
	assert.NotNil(t, doc.Components.Schemas)

	item := doc.Paths.Value("/api/v1/items/{id}")
	require.NotNil(t, item)
	require.NotNil(t, item.Get)
	require.NotNil(t, item.Delete)

	assert.Equal(t, "items-read_item", item.Get.OperationID)
	assert.Equal(t, "Read Item", item.Get.Summary)
	assert.Equal(t, []string{"items"}, item.Get.Tags)
	assert.Equal(t, "Remove an item", item.Delete.Summary)

	require.Len(t, item.Get.Parameters, 1)
	param := item.Get.Parameters[0].Value
	assert.Equal(t, "id", param.Name)
	assert.Equal(t, openapi3.ParameterInPath, param.In)
	assert.True(t, param.Required)

	require.NotNil(t, doc.Paths.Value("/api/v1/items/"))
	assert.NoError(t, doc.Validate(context.Background()))
}

func TestGenerate_ExtraResponses(t *testing.T) {
	routes := []Route{{
		Method: "GET",
		Path:   "/utils/health-check/",
		Name:   "health_check",
		Tags:   []string{"utils"},
		Responses: map[int]Response{
			400: {Description: "Bad Request", SchemaRef: "#/components/schemas/HTTPException"},
			404: {Description: "Not Found"},
		},
	}}

	doc, err := Generate(Info{Title: "Backend", Version: "0.1.0"}, routes, TaggedUniqueID)
	require.NoError(t, err)

	op := doc.Paths.Value("/utils/health-check/").Get
	require.NotNil(t, op)

	ok := op.Responses.Value("200")
	require.NotNil(t, ok)
	assert.Equal(t, "Successful Response", *ok.Value.Description)

	bad := op.Responses.Value("400")
	require.NotNil(t, bad)
	assert.Equal(t, "Bad Request", *bad.Value.Description)
	media := bad.Value.Content.Get("application/json")
	require.NotNil(t, media)
	assert.Equal(t, "#/components/schemas/HTTPException", media.Schema.Ref)

	notFound := op.Responses.Value("404")
	require.NotNil(t, notFound)
	assert.Empty(t, notFound.Value.Content)

	// The reference only resolves once the schema exists.
	doc.Components.Schemas["HTTPException"] = openapi3.NewSchemaRef("", openapi3.NewObjectSchema().
		WithProperty("detail", openapi3.NewStringSchema()).
		WithRequired([]string{"detail"}))

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	loaded, err := openapi3.NewLoader().LoadFromData(raw)
	require.NoError(t, err)
	assert.NoError(t, loaded.Validate(context.Background()))
}

func TestGenerate_DuplicateOperationID(t *testing.T) {
	routes := []Route{
		{Method: "GET", Path: "/a", Name: "read", Tags: []string{"items"}},
		{Method: "GET", Path: "/b", Name: "read", Tags: []string{"items"}},
	}

	_, err := Generate(Info{Title: "t", Version: "v"}, routes, TaggedUniqueID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate operation id "items-read"`)
}

func TestGenerate_RequiresName(t *testing.T) {
	_, err := Generate(Info{Title: "t", Version: "v"}, []Route{{Method: "GET", Path: "/", Tags: []string{"x"}}}, nil)
	assert.Error(t, err)
}

func TestGenerate_DefaultUniqueIDWhenNil(t *testing.T) {
	doc, err := Generate(Info{Title: "t", Version: "v"}, []Route{{Method: "POST", Path: "/items/", Name: "create_item"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "create_item_items__post", doc.Paths.Value("/items/").Post.OperationID)
}

func TestTemplatePath(t *testing.T) {
	path, params, err := templatePath("/users/:user_id/items/:item_id")
	require.NoError(t, err)
	assert.Equal(t, "/users/{user_id}/items/{item_id}", path)
	assert.Equal(t, []string{"user_id", "item_id"}, params)

	path, params, err = templatePath("/static/*")
	require.NoError(t, err)
	assert.Equal(t, "/static/{path}", path)
	assert.Equal(t, []string{"path"}, params)

	path, params, err = templatePath("/items/a/*/b/+")
	require.NoError(t, err)
	assert.Equal(t, "/items/a/{path1}/b/{path2}", path)
	assert.Equal(t, []string{"path1", "path2"}, params)

	_, _, err = templatePath("/items/:id?")
	assert.ErrorContains(t, err, "optional parameter")
}

func TestGenerate_MultipleWildcards(t *testing.T) {
	doc, err := Generate(Info{Title: "t", Version: "1"}, []Route{
		{Method: "GET", Path: "/items/a/*/b/*", Name: "read_nested", Tags: []string{"items"}},
	}, TaggedUniqueID)
	require.NoError(t, err)

	item := doc.Paths.Value("/items/a/{path1}/b/{path2}")
	require.NotNil(t, item)
	assert.Len(t, item.Get.Parameters, 2)
	assert.NoError(t, doc.Validate(context.Background()))
}

func TestGenerate_OptionalParameter(t *testing.T) {
	_, err := Generate(Info{Title: "t", Version: "1"}, []Route{
		{Method: "GET", Path: "/items/:id?", Name: "read_item", Tags: []string{"items"}},
	}, nil)
	assert.ErrorContains(t, err, `optional parameter ":id?"`)

	assert.NoError(t, ValidatePath("/items/:id"))
	assert.Error(t, ValidatePath("/items/:id?"))
}
