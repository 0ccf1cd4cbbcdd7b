package launchpad

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Application wires together configuration, logging and the HTTP server.
// It manages the complete lifecycle of a launchpad web application.
type Application struct {
	Config Config
	Logger Logger
	Server *Server

	shutdownHooks []func(context.Context)
}

// ApplicationOptions configure application bootstrapping.
type ApplicationOptions struct {
	// Core dependencies (required)
	Config Config
	Logger Logger

	// Server configuration
	ServerConfig *ServerConfig
}

// NewApplication constructs a launchpad application.
func NewApplication(opts ApplicationOptions) (*Application, error) {
	serverCfg := opts.ServerConfig
	if serverCfg == nil {
		serverCfg = DefaultServerConfig()
	}

	serverCfg.Config = opts.Config
	serverCfg.Logger = opts.Logger

	server, err := NewServer(serverCfg)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config: opts.Config,
		Logger: opts.Logger,
		Server: server,
	}, nil
}

// OnShutdown registers fn to run after the server stops.
func (a *Application) OnShutdown(fn func(context.Context)) {
	a.shutdownHooks = append(a.shutdownHooks, fn)
}

// Addr is the configured listen address.
func (a *Application) Addr() string {
	return net.JoinHostPort(a.Config.GetHost(), a.Config.GetPort())
}

// Start launches the HTTP server on the configured address and blocks.
func (a *Application) Start() error {
	return a.Server.Listen(a.Addr())
}

// StartAsync launches the HTTP server in a goroutine.
func (a *Application) StartAsync() <-chan error {
	errc := make(chan error, 1)
	go func() {
		if err := a.Start(); err != nil {
			a.Logger.Error("Server error", "error", err)
			errc <- err
		}
		close(errc)
	}()
	return errc
}

// Shutdown gracefully stops the server, then runs shutdown hooks.
func (a *Application) Shutdown(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)
	for _, hook := range a.shutdownHooks {
		hook(ctx)
	}
	return err
}

// Run starts the application and waits for termination signals.
// It handles graceful shutdown with a default timeout of 10 seconds.
func (a *Application) Run() error {
	return a.RunWithTimeout(10 * time.Second)
}

// RunWithTimeout starts the application and waits for termination signals.
// It handles graceful shutdown with the specified timeout.
func (a *Application) RunWithTimeout(timeout time.Duration) error {
	errc := a.StartAsync()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-errc:
		if ok && err != nil {
			return err
		}
		return errors.New("launchpad: server stopped unexpectedly")
	case <-stop:
	}

	a.Logger.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.Shutdown(ctx); err != nil {
		a.Logger.Error("Graceful shutdown failed", "error", err)
		return err
	}

	a.Logger.Info("Shutdown complete")
	return nil
}
