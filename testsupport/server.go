// Package testsupport provides helpers for exercising launchpad servers in
// tests without binding a port.
package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/karloscodes/launchpad"
)

// TestServerOptions configures test server creation.
type TestServerOptions struct {
	// Routers to include, each under its IncludeOptions.
	Routers []RouterMount

	// Custom server configuration (optional)
	ServerConfig *launchpad.ServerConfig

	// Logger overrides the discarding test logger.
	Logger launchpad.Logger

	// DisableMiddleware turns off request logging and compression.
	DisableMiddleware bool
}

// RouterMount pairs a router with its include options.
type RouterMount struct {
	Router  *launchpad.Router
	Options launchpad.IncludeOptions
}

// TestServer wraps a launchpad server for testing.
type TestServer struct {
	t      *testing.T
	Server *launchpad.Server
	Logger launchpad.Logger
	Config *TestConfig
}

// NewTestServer creates a test server.
func NewTestServer(t *testing.T, opts ...TestServerOptions) *TestServer {
	t.Helper()

	var options TestServerOptions
	if len(opts) > 0 {
		options = opts[0]
	}

	logger := options.Logger
	if logger == nil {
		logger = NewTestLogger()
	}
	config := NewTestConfig()

	serverCfg := options.ServerConfig
	if serverCfg == nil {
		serverCfg = launchpad.DefaultServerConfig()
	}
	serverCfg.Config = config
	serverCfg.Logger = logger

	if options.DisableMiddleware {
		serverCfg.EnableRequestLogger = false
		serverCfg.EnableCompress = false
	}

	server, err := launchpad.NewServer(serverCfg)
	if err != nil {
		t.Fatalf("testsupport: failed to create test server: %v", err)
	}

	for _, mount := range options.Routers {
		if err := server.IncludeRouter(mount.Router, mount.Options); err != nil {
			t.Fatalf("testsupport: include router: %v", err)
		}
	}

	return Wrap(t, server, logger, config)
}

// Wrap builds a TestServer around an existing server.
func Wrap(t *testing.T, server *launchpad.Server, logger launchpad.Logger, config *TestConfig) *TestServer {
	return &TestServer{
		t:      t,
		Server: server,
		Logger: logger,
		Config: config,
	}
}

// App returns the mounted fiber app.
func (ts *TestServer) App() *fiber.App {
	return ts.Server.App()
}

// Request performs a test request with optional headers and returns the response.
func (ts *TestServer) Request(method, path string, body string, headers map[string]string) *http.Response {
	ts.t.Helper()

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := ts.App().Test(req, -1)
	if err != nil {
		ts.t.Fatalf("testsupport: request failed: %v", err)
	}

	return resp
}

// Get performs a GET request.
func (ts *TestServer) Get(path string) *http.Response {
	return ts.Request(http.MethodGet, path, "", nil)
}

// Post performs a POST request with JSON body.
func (ts *TestServer) Post(path, body string) *http.Response {
	return ts.Request(http.MethodPost, path, body, nil)
}

// GetJSON performs a GET request and decodes the body into out.
func (ts *TestServer) GetJSON(path string, out any) *http.Response {
	ts.t.Helper()

	resp := ts.Get(path)
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		ts.t.Fatalf("testsupport: decode %s: %v", path, err)
	}
	return resp
}

// Body reads and closes the response body.
func Body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("testsupport: read body: %v", err)
	}
	return string(b)
}
