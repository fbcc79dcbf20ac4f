// Package logger provides a simple wrapper around slog for structured logging.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the global logger instance.
var Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// Options configures where the global logger writes.
type Options struct {
	// File is the log file path. Empty means stderr, or nowhere when Discard is set.
	File string
	// Level is one of debug, info, warn, error.
	Level string
	// Discard drops logs when no file is configured. The TUI sets this so log
	// lines never land on the alternate screen.
	Discard bool
}

// Setup replaces the global logger according to opts and returns a closer
// for the underlying file, if any.
func Setup(opts Options) io.Closer {
	level := ParseLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{Level: level}

	switch {
	case opts.File != "":
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		Logger = slog.New(slog.NewTextHandler(rotator, handlerOpts))
		return rotator
	case opts.Discard:
		Logger = slog.New(slog.NewTextHandler(io.Discard, handlerOpts))
	default:
		Logger = slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
	}
	return nopCloser{}
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}
