// Package logging builds the process-wide structured logger from the
// configured log level.
package logging

import (
	"log/slog"
	"os"
)

// New builds a text-handler slog.Logger writing to stderr. level follows
// the configuration's 0-4 scale: 0 is most verbose (debug), 4 is least
// (error); anything outside that range clamps to the nearest end.
func New(level int) *slog.Logger {
	var lvl slog.Level
	switch {
	case level <= 0:
		lvl = slog.LevelDebug
	case level == 1:
		lvl = slog.LevelInfo
	case level == 2:
		lvl = slog.LevelWarn
	default:
		lvl = slog.LevelError
	}

	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(h)
}
