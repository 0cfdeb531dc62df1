package logger

import (
	"io"
	"log/slog"
	"os"
)

// serviceName tags every log line so aggregated streams stay attributable.
const serviceName = "cookiegate"

// New returns the process logger: structured JSON on stdout.
func New() *slog.Logger {
	return newLogger(os.Stdout)
}

func newLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	handler := slog.NewJSONHandler(w, opts)
	return slog.New(handler).With("service", serviceName)
}
