package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Type aliases for commonly used slog types.
type (
	Logger = *slog.Logger
	Level  = slog.Level
)

var logLevelStrToLevel = map[string]Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Config holds configuration parameters for logging.
type Config struct {
	// AppName is added to every entry when set.
	AppName string

	// Level sets the minimum log level ("debug", "info", "warn", "error").
	Level string

	// JSON switches from slog's text format to JSON.
	JSON bool

	// Output receives the log entries; nil means stderr.
	Output io.Writer
}

// New builds a logger from cfg. Unknown levels fall back to info.
func New(cfg Config) Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level, slog.LevelInfo)}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	if cfg.AppName != "" {
		logger = logger.With("app", cfg.AppName)
	}
	return logger
}

// NewNopLogger creates a logger that discards all output.
func NewNopLogger() Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// ParseLevel maps a level name to its slog.Level, or fallback when unknown.
func ParseLevel(levelStr string, fallback Level) Level {
	level, ok := logLevelStrToLevel[strings.ToLower(strings.TrimSpace(levelStr))]
	if !ok {
		return fallback
	}
	return level
}
