package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["dev"])
	assert.True(t, names["serve"])
	assert.True(t, names["openapi"])

	addr := root.Flags().Lookup("addr")
	require.NotNil(t, addr)
	assert.Equal(t, "localhost:8000", addr.DefValue)
}

func TestOpenAPICmd(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	for _, key := range []string{"ENVIRONMENT", "SENTRY_DSN", "BACKEND_CORS_ORIGINS", "FRONTEND_HOST", "API_V1_STR"} {
		t.Setenv(key, "")
	}
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("PROJECT_NAME=Inventory\n"), 0o644))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"openapi", "--env-file", file})
	require.NoError(t, root.Execute())

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths      map[string]any `json:"paths"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "Inventory", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/api/v1/utils/health-check/")
	assert.Contains(t, doc.Components.Schemas, "HTTPException")
}
