// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Writes to a debug log file while the TUI owns the terminal, otherwise to a stream.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Init configures the default slog logger to write to w.
// LOG_LEVEL: debug, info, warn, error (default: info)
// LOG_FORMAT: text, json (default: text)
func Init(w io.Writer) {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// InitFile points the default logger at <configDir>/debug.log so log lines
// never interfere with the terminal display. If configDir is empty or the
// file cannot be opened, logging is discarded. The returned func closes the file.
func InitFile(configDir string) (func(), error) {
	if configDir == "" {
		Init(io.Discard)
		return func() {}, nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		Init(io.Discard)
		return func() {}, err
	}

	logPath := filepath.Join(configDir, "debug.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		Init(io.Discard)
		return func() {}, err
	}

	Init(f)
	return func() { f.Close() }, nil
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
