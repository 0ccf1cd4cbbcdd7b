package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/karloscodes/launchpad"
	"github.com/karloscodes/launchpad/config"
	"github.com/karloscodes/launchpad/internal/app"
	"github.com/karloscodes/launchpad/internal/devserver"
)

var envFile string

func newRootCmd() *cobra.Command {
	dev := newDevCmd()

	root := &cobra.Command{
		Use:           "backend",
		Short:         "Run the API backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          dev.RunE,
	}
	root.Flags().AddFlagSet(dev.Flags())
	root.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "Settings file read before the environment")

	root.AddCommand(dev)
	root.AddCommand(newServeCmd())
	root.AddCommand(newOpenAPICmd())
	return root
}

type bootstrap struct {
	settings *config.Settings
	logger   launchpad.Logger
	app      *launchpad.Application
}

// build loads settings and constructs the application. Logs go to logOut,
// stdout when nil.
func build(logOut io.Writer) (*bootstrap, error) {
	settings, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logCfg := launchpad.LogConfigFromProvider(settings)
	logCfg.Output = logOut
	logger := launchpad.NewSlogAdapter(launchpad.NewLogger(settings, logCfg))

	application, err := app.New(app.Options{Settings: settings, Logger: logger})
	if err != nil {
		return nil, err
	}
	return &bootstrap{settings: settings, logger: logger, app: application}, nil
}

func newDevCmd() *cobra.Command {
	var addr string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server with reload",
		RunE: func(cmd *cobra.Command, _ []string) error {
			first, err := build(nil)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			built := false
			return devserver.Run(ctx, func() (*launchpad.Application, error) {
				if !built {
					built = true
					return first.app, nil
				}
				b, err := build(nil)
				if err != nil {
					return nil, err
				}
				return b.app, nil
			}, devserver.Options{
				Addr:     addr,
				Watch:    []string{envFile},
				Debounce: debounce,
				Logger:   first.logger,
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", devserver.DefaultAddr, "Address to listen on")
	cmd.Flags().DurationVar(&debounce, "debounce", 250*time.Millisecond, "Delay before reloading after a change")
	return cmd
}

func newServeCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve on the configured host and port",
		RunE: func(_ *cobra.Command, _ []string) error {
			b, err := build(nil)
			if err != nil {
				return err
			}
			b.logger.Info("starting backend",
				"environment", b.settings.Environment,
				"addr", b.app.Addr(),
				"openapi", b.settings.OpenAPIURL(),
			)
			return b.app.RunWithTimeout(timeout)
		},
	}
	cmd.Flags().DurationVar(&timeout, "shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	return cmd
}

func newOpenAPICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stdout carries the document
			b, err := build(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return writeOpenAPI(cmd.OutOrStdout(), b.app.Server)
		},
	}
}

func writeOpenAPI(w io.Writer, server *launchpad.Server) error {
	doc, err := server.OpenAPI()
	if err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
