// Package log configures structured logging for the reporting binaries.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs a text slog handler at the given level as the process
// default and returns a logger tagged with the binary name.
func Setup(binary, level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	logger := slog.New(handler).With("component", binary)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
