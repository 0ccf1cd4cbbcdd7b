package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/karloscodes/launchpad/telemetry"
)

// Environment constants.
const (
	Local      = "local"
	Staging    = "staging"
	Production = "production"
)

// DefaultEnvFile is read when Load is called without a path.
const DefaultEnvFile = ".env"

// Settings is the process-wide configuration of the backend.
type Settings struct {
	ProjectName string `mapstructure:"project_name"`
	Version     string `mapstructure:"version"`

	// APIV1Str is the path prefix every API route is mounted under.
	APIV1Str string `mapstructure:"api_v1_str"`

	// Environment: local, staging or production.
	Environment string `mapstructure:"environment"`

	// SentryDSN enables error telemetry outside the local environment.
	SentryDSN string `mapstructure:"sentry_dsn"`

	// Raw CORS inputs, see AllCORSOrigins.
	BackendCORSOrigins string `mapstructure:"backend_cors_origins"`
	FrontendHost       string `mapstructure:"frontend_host"`

	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`

	// RateLimitMax is the per-second request budget per client IP. Zero disables it.
	RateLimitMax int `mapstructure:"rate_limit_max"`

	// Logging configuration.
	LogLevel       string `mapstructure:"log_level"`
	LogsDirectory  string `mapstructure:"logs_dir"`
	LogsMaxSizeMB  int    `mapstructure:"logs_max_size_mb"`
	LogsMaxBackups int    `mapstructure:"logs_max_backups"`
	LogsMaxAgeDays int    `mapstructure:"logs_max_age_days"`

	// EnvFile is the dotenv file the settings were read from, if any.
	EnvFile string `mapstructure:"-"`

	corsOrigins []string
}

// keys maps settings keys to their environment variables.
var keys = map[string]string{
	"project_name":         "PROJECT_NAME",
	"version":              "VERSION",
	"api_v1_str":           "API_V1_STR",
	"environment":          "ENVIRONMENT",
	"sentry_dsn":           "SENTRY_DSN",
	"backend_cors_origins": "BACKEND_CORS_ORIGINS",
	"frontend_host":        "FRONTEND_HOST",
	"host":                 "HOST",
	"port":                 "PORT",
	"rate_limit_max":       "RATE_LIMIT_MAX",
	"log_level":            "LOG_LEVEL",
	"logs_dir":             "LOGS_DIR",
	"logs_max_size_mb":     "LOGS_MAX_SIZE_MB",
	"logs_max_backups":     "LOGS_MAX_BACKUPS",
	"logs_max_age_days":    "LOGS_MAX_AGE_DAYS",
}

// Load reads settings from envFile (DefaultEnvFile when empty) and the
// process environment. Environment variables win over the file.
// A missing file is not an error.
func Load(envFile string) (*Settings, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	v := viper.New()
	setDefaults(v)

	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", envFile, err)
		}
	} else {
		envFile = ""
	}

	for key, env := range keys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", env, err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	s.EnvFile = envFile

	if err := s.normalize(); err != nil {
		return nil, err
	}
	return s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("project_name", "Full Stack Backend")
	v.SetDefault("version", "0.1.0")
	v.SetDefault("api_v1_str", "/api/v1")
	v.SetDefault("environment", Local)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8000")
	v.SetDefault("rate_limit_max", 0)

	v.SetDefault("logs_dir", "storage/logs")
	v.SetDefault("logs_max_size_mb", 20)
	v.SetDefault("logs_max_backups", 10)
	v.SetDefault("logs_max_age_days", 30)
}

// normalize parses derived fields and validates the result.
func (s *Settings) normalize() error {
	var problems []string

	s.Environment = strings.ToLower(strings.TrimSpace(s.Environment))
	switch s.Environment {
	case Local, Staging, Production:
	default:
		problems = append(problems, fmt.Sprintf("invalid ENVIRONMENT value %q", s.Environment))
	}

	if strings.TrimSpace(s.ProjectName) == "" {
		problems = append(problems, "PROJECT_NAME is required")
	}

	s.APIV1Str = strings.TrimRight(s.APIV1Str, "/")
	if !strings.HasPrefix(s.APIV1Str, "/") {
		problems = append(problems, fmt.Sprintf("API_V1_STR must start with '/', got %q", s.APIV1Str))
	}

	if s.SentryDSN != "" {
		if u, err := url.Parse(s.SentryDSN); err != nil || u.Host == "" {
			problems = append(problems, "SENTRY_DSN is not a valid URL")
		}
	}

	origins, err := ParseCORS(s.BackendCORSOrigins)
	if err != nil {
		problems = append(problems, err.Error())
	}
	if s.FrontendHost != "" {
		origins = append(origins, s.FrontendHost)
	}
	s.corsOrigins = nil
	seen := make(map[string]bool, len(origins))
	for _, origin := range origins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" || seen[origin] {
			continue
		}
		if err := validateOrigin(origin); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		seen[origin] = true
		s.corsOrigins = append(s.corsOrigins, origin)
	}

	if len(problems) > 0 {
		return errors.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// ParseCORS accepts a JSON list (`["http://a","http://b"]`) or a
// comma-separated string.
func ParseCORS(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, fmt.Errorf("BACKEND_CORS_ORIGINS is not a valid JSON list: %v", err)
		}
		return list, nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins, nil
}

func validateOrigin(origin string) error {
	if origin == "*" {
		return errors.New("wildcard CORS origin is not allowed with credentials, list origins explicitly")
	}
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" || u.Path != "" {
		return fmt.Errorf("invalid CORS origin %q", origin)
	}
	return nil
}

// AllCORSOrigins returns the backend origins followed by the frontend host,
// trailing slashes stripped and duplicates removed.
func (s *Settings) AllCORSOrigins() []string {
	return append([]string(nil), s.corsOrigins...)
}

// OpenAPIURL is where the OpenAPI document is served.
func (s *Settings) OpenAPIURL() string { return s.APIV1Str + "/openapi.json" }

// TelemetryEnabled reports whether Sentry should be initialised.
func (s *Settings) TelemetryEnabled() bool {
	return telemetry.Enabled(s.SentryDSN, s.Environment)
}

// Environment checks.

func (s *Settings) IsLocal() bool      { return s.Environment == Local }
func (s *Settings) IsProduction() bool { return s.Environment == Production }

// launchpad.Config implementation.

func (s *Settings) GetEnvironment() string { return s.Environment }
func (s *Settings) GetHost() string        { return s.Host }
func (s *Settings) GetPort() string        { return s.Port }

// LogConfigProvider implementation.

func (s *Settings) GetLogLevel() string     { return s.LogLevel }
func (s *Settings) GetLogDirectory() string { return s.LogsDirectory }
func (s *Settings) GetLogMaxSizeMB() int    { return s.LogsMaxSizeMB }
func (s *Settings) GetLogMaxBackups() int   { return s.LogsMaxBackups }
func (s *Settings) GetLogMaxAgeDays() int   { return s.LogsMaxAgeDays }
func (s *Settings) GetAppName() string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s.ProjectName)), " ", "-")
}
