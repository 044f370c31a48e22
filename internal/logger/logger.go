// Package logger configures the process-wide slog logger used by the tmppg
// CLI. The library itself takes a *slog.Logger through the plan; this package
// only exists so the CLI can build one from flags and log consistently.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Config selects how and where the CLI logs.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text, json
	Output string // stdout, stderr, or a file path
}

var (
	mu      sync.RWMutex
	slogger = slog.New(NewTextHandler(os.Stderr, &slog.HandlerOptions{}, isTerminal(os.Stderr.Fd())))
)

// Init rebuilds the default logger from cfg and returns it. Unset fields keep
// their defaults: info level, text format, stderr.
func Init(cfg Config) (*slog.Logger, error) {
	out, color, err := resolveOutput(cfg.Output)
	if err != nil {
		return nil, err
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		h = NewTextHandler(out, opts, color)
	case "json":
		h = slog.NewJSONHandler(out, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	l := slog.New(h)
	mu.Lock()
	slogger = l
	mu.Unlock()
	return l, nil
}

func resolveOutput(output string) (io.Writer, bool, error) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr, isTerminal(os.Stderr.Fd()), nil
	case "stdout":
		return os.Stdout, isTerminal(os.Stdout.Fd()), nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, false, fmt.Errorf("open log file %q: %w", output, err)
		}
		return f, false, nil
	}
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}

// L returns the current default logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

// With returns the default logger with extra attributes bound.
func With(args ...any) *slog.Logger { return L().With(args...) }

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }
