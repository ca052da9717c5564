// Package log provides structured logging for lta on top of log/slog.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is the log output format.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// ParseFormat parses "text" or "json"; anything else is text.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, "json") {
		return FormatJSON
	}
	return FormatText
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config holds logger settings.
type Config struct {
	Level  slog.Level
	Format Format
	Output io.Writer
}

// DefaultConfig logs info and above as text to stderr. LTA_DEBUG lowers
// the level to debug.
func DefaultConfig() Config {
	cfg := Config{Level: slog.LevelInfo, Format: FormatText, Output: os.Stderr}
	if os.Getenv("LTA_DEBUG") != "" {
		cfg.Level = slog.LevelDebug
	}
	return cfg
}

// Logger wraps slog.Logger.
type Logger struct {
	*slog.Logger
}

// New creates a Logger.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	var h slog.Handler
	if cfg.Format == FormatJSON {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	return &Logger{Logger: slog.New(h)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// With returns a Logger with the given attributes on every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// WithError attaches err as the "error" attribute. A nil err is a no-op.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.With("error", err.Error())
}
