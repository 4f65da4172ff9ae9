// Package logging configures the structured logger shared by the CLI and
// the GitHub Action entrypoint.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// ParseLevel maps a --log-level value to a slog level. Unknown values fall
// back to info rather than failing the invocation.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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

// New returns a tint-backed logger writing to w. The result JSON owns
// stdout, so callers pass stderr (or a buffer in tests); a nil writer
// defaults to stderr.
func New(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	return slog.New(tint.NewHandler(w, &tint.Options{Level: level}))
}
