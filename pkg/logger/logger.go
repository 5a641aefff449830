// Package logger configures the process-wide structured logger. Components
// obtain child loggers tagged with their name.
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu  sync.RWMutex
	log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

// Configure replaces the process logger. format is "text" or "json";
// level is one of debug, info, warn, error.
func Configure(format, level string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	mu.Lock()
	log = slog.New(handler)
	mu.Unlock()
}

// Component returns a child logger tagged with the component name.
func Component(name string) *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log.With("component", name)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
