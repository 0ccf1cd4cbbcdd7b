package launchpad

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig configures the logger.
type LogConfig struct {
	// Level is the minimum log level. Defaults to "info" locally and
	// "warn" elsewhere. Overridden by the LOG_LEVEL env var.
	Level string

	// Directory for log files outside the local environment. Defaults to "logs".
	Directory string

	// MaxSizeMB is the max size in megabytes before rotation. Defaults to 100.
	MaxSizeMB int

	// MaxBackups is the max number of old log files to keep. Defaults to 3.
	MaxBackups int

	// MaxAgeDays is the max age in days before a log file is deleted. Defaults to 28.
	MaxAgeDays int

	// AppName is used in the log filename. Defaults to "app".
	AppName string

	// Output replaces stdout, mostly for tests.
	Output io.Writer
}

// LogConfigProvider allows configuration objects to provide log settings directly.
type LogConfigProvider interface {
	GetLogLevel() string
	GetLogDirectory() string
	GetLogMaxSizeMB() int
	GetLogMaxBackups() int
	GetLogMaxAgeDays() int
	GetAppName() string
}

// LogConfigFromProvider creates a LogConfig from a LogConfigProvider.
func LogConfigFromProvider(p LogConfigProvider) *LogConfig {
	return &LogConfig{
		Level:      p.GetLogLevel(),
		Directory:  p.GetLogDirectory(),
		MaxSizeMB:  p.GetLogMaxSizeMB(),
		MaxBackups: p.GetLogMaxBackups(),
		MaxAgeDays: p.GetLogMaxAgeDays(),
		AppName:    p.GetAppName(),
	}
}

// NewLogger creates a configured slog.Logger based on the environment.
//
// If cfg implements LogConfigProvider and logCfg is nil, log settings are
// extracted automatically.
//
// Local:
//   - Logs to stdout only, colored text
//
// Staging and production:
//   - Logs JSON to both stdout and a rotating file (lumberjack)
func NewLogger(cfg Config, logCfg *LogConfig) *slog.Logger {
	if logCfg == nil {
		if provider, ok := cfg.(LogConfigProvider); ok {
			logCfg = LogConfigFromProvider(provider)
		} else {
			logCfg = &LogConfig{}
		}
	}

	out := logCfg.Output
	if out == nil {
		out = os.Stdout
	}

	level := resolveLogLevel(cfg, logCfg.Level)

	if cfg.IsLocal() {
		return newLocalLogger(out, level)
	}
	return newDeployedLogger(out, level, logCfg)
}

// resolveLogLevel determines the log level from config, env, or defaults.
func resolveLogLevel(cfg Config, configLevel string) slog.Level {
	levelStr := configLevel

	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		levelStr = envLevel
	}

	if levelStr == "" {
		if cfg.IsLocal() {
			levelStr = "info"
		} else {
			levelStr = "warn"
		}
	}

	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLocalLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}
	return slog.New(newColorHandler(w, opts))
}

func newDeployedLogger(w io.Writer, level slog.Level, logCfg *LogConfig) *slog.Logger {
	appName := logCfg.AppName
	if appName == "" {
		appName = "app"
	}

	dir := logCfg.Directory
	if dir == "" {
		dir = "logs"
	}

	maxSize := logCfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 100
	}

	maxBackups := logCfg.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}

	maxAge := logCfg.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 28
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		// stdout only
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, appName+".log"),
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   true,
	}

	return slog.New(slog.NewJSONHandler(io.MultiWriter(w, rotator), opts))
}

// colorHandler is a colored text handler for local development.
type colorHandler struct {
	w     io.Writer
	level slog.Level
	attrs []slog.Attr
	group string
}

func newColorHandler(w io.Writer, opts *slog.HandlerOptions) *colorHandler {
	level := slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level.Level()
	}
	return &colorHandler{w: w, level: level}
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorBlue
	default:
		return colorGray
	}
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder
	buf.WriteString(colorGray)
	buf.WriteString(r.Time.Format("15:04:05"))
	buf.WriteString(colorReset)
	buf.WriteString(" ")
	buf.WriteString(levelColor(r.Level))
	buf.WriteString(r.Level.String())
	buf.WriteString(colorReset)
	buf.WriteString(" ")
	buf.WriteString(r.Message)

	write := func(a slog.Attr) {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		buf.WriteString(" ")
		buf.WriteString(colorGray)
		buf.WriteString(key)
		buf.WriteString("=")
		buf.WriteString(colorReset)
		buf.WriteString(a.Value.String())
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(a)
		return true
	})

	buf.WriteString("\n")
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	next := *h
	if next.group != "" {
		name = next.group + "." + name
	}
	next.group = name
	return &next
}
