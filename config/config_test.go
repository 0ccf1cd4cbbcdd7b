package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karloscodes/launchpad/telemetry"
)

// clearEnv unsets every bound variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range keys {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func missingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	s, err := Load(missingFile(t))
	require.NoError(t, err)

	assert.Equal(t, "Full Stack Backend", s.ProjectName)
	assert.Equal(t, "0.1.0", s.Version)
	assert.Equal(t, "/api/v1", s.APIV1Str)
	assert.Equal(t, Local, s.Environment)
	assert.Equal(t, "8000", s.Port)
	assert.Empty(t, s.AllCORSOrigins())
	assert.Empty(t, s.EnvFile)
	assert.False(t, s.TelemetryEnabled())
	assert.Equal(t, "/api/v1/openapi.json", s.OpenAPIURL())
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "PROJECT_NAME=Inventory\n" +
		"ENVIRONMENT=staging\n" +
		"API_V1_STR=/api/v2/\n" +
		"BACKEND_CORS_ORIGINS=http://localhost/,https://dashboard.example.com\n" +
		"FRONTEND_HOST=http://localhost:5173\n" +
		"RATE_LIMIT_MAX=25\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	t.Setenv("PORT", "9090")

	s, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "Inventory", s.ProjectName)
	assert.Equal(t, Staging, s.Environment)
	assert.Equal(t, "/api/v2", s.APIV1Str)
	assert.Equal(t, "9090", s.Port)
	assert.Equal(t, 25, s.RateLimitMax)
	assert.Equal(t, envFile, s.EnvFile)
	assert.Equal(t, []string{
		"http://localhost",
		"https://dashboard.example.com",
		"http://localhost:5173",
	}, s.AllCORSOrigins())
	assert.Equal(t, "inventory", s.GetAppName())
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ENVIRONMENT=staging\n"), 0o644))
	t.Setenv("ENVIRONMENT", "production")

	s, err := Load(envFile)
	require.NoError(t, err)
	assert.True(t, s.IsProduction())
}

func TestLoad_TelemetryEnabled(t *testing.T) {
	tests := []struct {
		env  string
		dsn  string
		want bool
	}{
		{Local, "https://key@o0.ingest.sentry.io/1", false},
		{Staging, "https://key@o0.ingest.sentry.io/1", true},
		{Production, "https://key@o0.ingest.sentry.io/1", true},
		{Production, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.dsn, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("ENVIRONMENT", tt.env)
			t.Setenv("SENTRY_DSN", tt.dsn)

			s, err := Load(missingFile(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.TelemetryEnabled())
			assert.Equal(t, telemetry.Enabled(s.SentryDSN, s.Environment), s.TelemetryEnabled())
		})
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad environment", map[string]string{"ENVIRONMENT": "qa"}, `invalid ENVIRONMENT value "qa"`},
		{"empty project name", map[string]string{"PROJECT_NAME": " "}, "PROJECT_NAME is required"},
		{"relative prefix", map[string]string{"API_V1_STR": "api"}, "API_V1_STR must start with '/'"},
		{"wildcard origin", map[string]string{"BACKEND_CORS_ORIGINS": "*"}, "wildcard CORS origin"},
		{"bad origin", map[string]string{"BACKEND_CORS_ORIGINS": "localhost:3000"}, `invalid CORS origin "localhost:3000"`},
		{"origin with path", map[string]string{"FRONTEND_HOST": "http://localhost:5173/app"}, "invalid CORS origin"},
		{"bad json list", map[string]string{"BACKEND_CORS_ORIGINS": `["http://a"`}, "not a valid JSON list"},
		{"bad dsn", map[string]string{"SENTRY_DSN": "not a dsn"}, "SENTRY_DSN is not a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(missingFile(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseCORS(t *testing.T) {
	list, err := ParseCORS(`["http://a.test", "https://b.test"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "https://b.test"}, list)

	list, err = ParseCORS(" http://a.test , ,https://b.test ")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "https://b.test"}, list)

	list, err = ParseCORS("")
	require.NoError(t, err)
	assert.Nil(t, list)
}

func TestAllCORSOrigins_Deduplicates(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_CORS_ORIGINS", "http://localhost:5173/,http://localhost:5173")
	t.Setenv("FRONTEND_HOST", "http://localhost:5173")

	s, err := Load(missingFile(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173"}, s.AllCORSOrigins())

	// Callers get a copy.
	s.AllCORSOrigins()[0] = "mutated"
	assert.Equal(t, "http://localhost:5173", s.AllCORSOrigins()[0])
}
