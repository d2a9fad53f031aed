// Package logging installs the process-wide slog handler.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Structured field keys shared across packages.
const (
	KeyComponent = "component"
	KeySession   = "session"
	KeyError     = "error"
)

// Init sets the default logger.
// format: "json" or "text" (default "text")
// level: "debug", "info", "warn", "error" (default "info")
// output: writer to log to (nil = os.Stderr)
//
// Text output is colored only when it goes to os.Stderr.
func Init(format, level string, output io.Writer) *slog.Logger {
	if output == nil {
		output = os.Stderr
	}
	lvl := parseLevel(level)

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(output, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = tint.NewHandler(output, &tint.Options{
			Level:      lvl,
			TimeFormat: time.TimeOnly,
			NoColor:    output != os.Stderr,
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// L returns the default logger tagged with a component name.
func L(component string) *slog.Logger {
	return slog.Default().With(slog.String(KeyComponent, component))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
