package logger

import (
	"log/slog"
	"os"
)

// New returns a text logger on stdout. Debug widens the level for local runs.
func New(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
