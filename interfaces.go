package launchpad

// Logger abstracts logging operations across different logging libraries.
// slog implements it through NewSlogAdapter.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, keysAndValues ...any)
}

// Config abstracts runtime configuration access.
// config.Settings is the production implementation.
type Config interface {
	// GetEnvironment returns the deployment environment name.
	GetEnvironment() string

	// IsLocal returns true when running on a developer machine.
	IsLocal() bool

	// IsProduction returns true if running in production.
	IsProduction() bool

	// GetHost returns the interface the HTTP server binds to.
	GetHost() string

	// GetPort returns the HTTP server port.
	GetPort() string
}
