// Package telemetry wires Sentry error reporting into a fiber application.
package telemetry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// Options configure the Sentry client.
type Options struct {
	DSN         string
	Environment string
	Release     string

	// TracesSampleRate defaults to 1.0 (trace every transaction).
	TracesSampleRate float64
	Debug            bool
}

// Enabled reports whether telemetry applies: a DSN is set and the
// environment is not "local".
func Enabled(dsn, environment string) bool {
	return dsn != "" && environment != "local"
}

// Init installs the process-wide Sentry client with tracing enabled.
func Init(opts Options) error {
	rate := opts.TracesSampleRate
	if rate <= 0 {
		rate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		Debug:            opts.Debug,
		EnableTracing:    true,
		TracesSampleRate: rate,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("telemetry: sentry init: %w", err)
	}
	return nil
}

// Middleware attaches a hub to every request and reports panics. Panics are
// re-raised so the recover middleware still answers with a 500.
func Middleware() fiber.Handler {
	return sentryfiber.New(sentryfiber.Options{
		Repanic: true,
		Timeout: 2 * time.Second,
	})
}

// CaptureError reports err on the request's hub. No-op when the request
// carries no hub.
func CaptureError(c *fiber.Ctx, err error) {
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
}

// Flush waits up to timeout for buffered events to be sent.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
