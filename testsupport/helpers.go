package testsupport

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/karloscodes/launchpad"
)

// TestConfig implements launchpad.Config for testing.
type TestConfig struct {
	Environment string
	Host        string
	Port        string
}

// NewTestConfig creates a local-environment configuration on a random port.
func NewTestConfig() *TestConfig {
	return &TestConfig{
		Environment: "local",
		Host:        "127.0.0.1",
		Port:        "0",
	}
}

func (c *TestConfig) GetEnvironment() string { return c.Environment }
func (c *TestConfig) IsLocal() bool          { return c.Environment == "local" }
func (c *TestConfig) IsProduction() bool     { return c.Environment == "production" }
func (c *TestConfig) GetHost() string        { return c.Host }
func (c *TestConfig) GetPort() string        { return c.Port }

// NewTestLogger creates a logger that discards all output.
// Use this for tests where you don't need to verify log messages.
func NewTestLogger() launchpad.Logger {
	return launchpad.NewSlogAdapter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// BufferLogger records log lines for assertions.
type BufferLogger struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (l *BufferLogger) write(level, msg string, kv []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(&l.buf, "%s %s %v\n", level, msg, kv)
}

func (l *BufferLogger) Debug(msg string, kv ...any) { l.write("DEBUG", msg, kv) }
func (l *BufferLogger) Info(msg string, kv ...any)  { l.write("INFO", msg, kv) }
func (l *BufferLogger) Warn(msg string, kv ...any)  { l.write("WARN", msg, kv) }
func (l *BufferLogger) Error(msg string, kv ...any) { l.write("ERROR", msg, kv) }

// String returns everything logged so far.
func (l *BufferLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}
