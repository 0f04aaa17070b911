// Package observability provides structured logging and Prometheus metrics
// for the client.
package observability

import (
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// LogConfig configures structured log output.
type LogConfig struct {
	// Level sets the minimum log level: "debug", "info", "warn", "error".
	Level string

	// Format selects "json" or "text" output. JSON is meant for
	// production, text for interactive use.
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer

	// AddSource includes file and line in log records.
	AddSource bool
}

// Channel secrets and session tokens travel in bearer headers and URLs;
// neither belongs in a log line.
var redactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/=-]+`),
	regexp.MustCompile(`(?i)(secret|token)=[A-Za-z0-9._~+/=-]+`),
}

// NewLogger builds a slog.Logger from the config. Attribute values matching
// known credential shapes are redacted.
func NewLogger(cfg LogConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:       parseLevel(cfg.Level),
		AddSource:   cfg.AddSource,
		ReplaceAttr: redactAttr,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler)
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

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	v := a.Value.String()
	for _, re := range redactPatterns {
		v = re.ReplaceAllString(v, "[REDACTED]")
	}
	a.Value = slog.StringValue(v)
	return a
}
