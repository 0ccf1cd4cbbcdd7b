package devserver

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karloscodes/launchpad"
	"github.com/karloscodes/launchpad/testsupport"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().String()
}

// versionBuilder builds apps answering GET /version with the contents of
// file. Builds fail while the file contains "broken".
func versionBuilder(t *testing.T, file string, builds *atomic.Int32) BuildFunc {
	return func() (*launchpad.Application, error) {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		version := strings.TrimSpace(string(data))
		if version == "broken" {
			return nil, errors.New("invalid settings")
		}
		builds.Add(1)

		app, err := launchpad.NewApplication(launchpad.ApplicationOptions{
			Config: testsupport.NewTestConfig(),
			Logger: testsupport.NewTestLogger(),
		})
		if err != nil {
			return nil, err
		}
		r := launchpad.NewRouter(launchpad.WithTags("dev"))
		r.Get("/version", "version", func(c *launchpad.Context) error {
			return c.SendString(version)
		})
		if err := app.Server.IncludeRouter(r, launchpad.IncludeOptions{}); err != nil {
			return nil, err
		}
		return app, nil
	}
}

func fetch(addr string) string {
	client := http.Client{Timeout: 200 * time.Millisecond}
	resp, err := client.Get("http://" + addr + "/version")
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return string(body)
}

func TestRun_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("v1"), 0o644))

	addr := freeAddr(t)
	var builds atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, versionBuilder(t, envFile, &builds), Options{
			Addr:     addr,
			Watch:    []string{envFile},
			Debounce: 20 * time.Millisecond,
			Logger:   testsupport.NewTestLogger(),
		})
	}()

	require.Eventually(t, func() bool { return fetch(addr) == "v1" }, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(envFile, []byte("v2"), 0o644))
	require.Eventually(t, func() bool { return fetch(addr) == "v2" }, 3*time.Second, 20*time.Millisecond)

	// a broken build leaves the running application in place
	before := builds.Load()
	require.NoError(t, os.WriteFile(envFile, []byte("broken"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, "v2", fetch(addr))
	assert.Equal(t, before, builds.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("dev server did not stop")
	}
}

func TestRun_IgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("v1"), 0o644))

	addr := freeAddr(t)
	var builds atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = Run(ctx, versionBuilder(t, envFile, &builds), Options{
			Addr:     addr,
			Watch:    []string{envFile},
			Debounce: 20 * time.Millisecond,
			Logger:   testsupport.NewTestLogger(),
		})
	}()

	require.Eventually(t, func() bool { return fetch(addr) == "v1" }, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), builds.Load())
}

func TestRun_InitialBuildFailure(t *testing.T) {
	err := Run(context.Background(), func() (*launchpad.Application, error) {
		return nil, errors.New("no settings")
	}, Options{Logger: testsupport.NewTestLogger()})

	assert.ErrorContains(t, err, "devserver: build: no settings")
}

func TestRun_RequiresLogger(t *testing.T) {
	err := Run(context.Background(), nil, Options{})
	assert.ErrorContains(t, err, "logger is required")
}
