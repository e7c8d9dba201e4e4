// Package logging configures the process-wide slog logger. Logs always go
// to stderr so that stdout carries only command output.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init builds a logger on stderr and installs it as the slog default.
// jsonOutput selects the JSON handler, used when stdout carries
// machine-readable results; otherwise the text handler is used.
func Init(jsonOutput bool, level slog.Level) *slog.Logger {
	l := New(os.Stderr, jsonOutput, level)
	slog.SetDefault(l)
	return l
}

// New returns a logger writing to w.
func New(w io.Writer, jsonOutput bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if jsonOutput {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel converts "debug", "info", "warn" or "error" (any case) to a
// slog.Level. Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	l, _ := lookupLevel(s)
	return l
}

// ValidLevel reports whether s names a level ParseLevel understands.
func ValidLevel(s string) bool {
	_, ok := lookupLevel(s)
	return ok
}

func lookupLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
