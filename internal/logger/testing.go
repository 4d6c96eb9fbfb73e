package logger

import (
	"io"
	"log/slog"
	"os"
)

// NewTestLogger returns a logger that discards output, unless TEST_DEBUG is
// set, in which case it writes debug logs to stdout.
func NewTestLogger() *slog.Logger {
	if os.Getenv("TEST_DEBUG") == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
