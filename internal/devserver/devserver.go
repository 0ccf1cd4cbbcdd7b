// Package devserver runs an application for local development and rebuilds
// it whenever a watched file changes.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/karloscodes/launchpad"
)

// BuildFunc constructs a fresh application, typically re-reading settings.
type BuildFunc func() (*launchpad.Application, error)

// Options configure Run.
type Options struct {
	// Addr to listen on. Defaults to localhost:8000.
	Addr string

	// Watch lists files whose changes trigger a rebuild. Missing files are
	// picked up once they are created.
	Watch []string

	// Debounce groups bursts of events into one rebuild. Defaults to 250ms.
	Debounce time.Duration

	Logger launchpad.Logger
}

// DefaultAddr is the development bind address.
const DefaultAddr = "localhost:8000"

type generation struct {
	id  int
	app *launchpad.Application
}

type exit struct {
	id  int
	err error
}

// Run serves the application built by build until ctx is cancelled.
// A failed rebuild keeps the previous application running.
func Run(ctx context.Context, build BuildFunc, opts Options) error {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 250 * time.Millisecond
	}
	if opts.Logger == nil {
		return errors.New("devserver: logger is required")
	}
	log := opts.Logger

	app, err := build()
	if err != nil {
		return fmt.Errorf("devserver: build: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("devserver: watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(opts.Watch))
	dirs := make(map[string]bool)
	for _, file := range opts.Watch {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("devserver: watch %s: %w", file, err)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	// Editors often replace files by rename, so watch the parent directories.
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("devserver: watch %s: %w", dir, err)
		}
	}

	exits := make(chan exit, 4)
	current := generation{id: 1, app: app}
	if err := serve(current, opts.Addr, exits); err != nil {
		return err
	}
	log.Info("dev server listening", "addr", opts.Addr, "watch", opts.Watch)

	debounce := time.NewTimer(opts.Debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return stop(current.app)

		case event, ok := <-watcher.Events:
			if !ok {
				return stop(current.app)
			}
			abs, _ := filepath.Abs(event.Name)
			if !watched[abs] || event.Op == fsnotify.Chmod {
				continue
			}
			log.Debug("change detected", "file", event.Name, "op", event.Op.String())
			debounce.Reset(opts.Debounce)

		case err, ok := <-watcher.Errors:
			if ok {
				log.Warn("watcher error", "error", err)
			}

		case <-debounce.C:
			next, err := build()
			if err != nil {
				log.Error("reload failed, keeping previous application", "error", err)
				continue
			}
			if err := stop(current.app); err != nil {
				log.Warn("previous application did not stop cleanly", "error", err)
			}
			current = generation{id: current.id + 1, app: next}
			if err := serve(current, opts.Addr, exits); err != nil {
				return err
			}
			log.Info("reloaded", "generation", current.id)

		case e := <-exits:
			if e.id != current.id {
				continue
			}
			if e.err != nil {
				return fmt.Errorf("devserver: %w", e.err)
			}
		}
	}
}

// serve binds addr and starts gen in the background.
func serve(gen generation, addr string, exits chan<- exit) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("devserver: listen %s: %w", addr, err)
	}
	fiberApp := gen.app.Server.App()
	go func() {
		exits <- exit{id: gen.id, err: fiberApp.Listener(ln)}
	}()
	return nil
}

func stop(app *launchpad.Application) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return app.Shutdown(ctx)
}
