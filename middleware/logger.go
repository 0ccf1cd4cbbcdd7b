// Package middleware holds the fiber middleware launchpad installs globally.
package middleware

// Logger is the subset of launchpad.Logger the middleware needs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}
