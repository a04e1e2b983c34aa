package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Drewniok/mqt-bench/internal/infrastructure/config"
)

// Logger wraps slog.Logger. Every entry carries the service name and
// version, so logs aggregated across deployments stay attributable. Safe
// for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds a logger from the logging config section: json format for
// production ingestion, text for a dev console, level and destination as
// configured with info/stdout fallbacks.
func New(cfg config.LoggingConfig, version string) *Logger {
	var out io.Writer = os.Stdout
	if strings.ToLower(cfg.Output) == "stderr" {
		out = os.Stderr
	}
	return newLogger(cfg, version, out)
}

func newLogger(cfg config.LoggingConfig, version string, out io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "mqtbench"),
		slog.String("version", version),
	})

	return &Logger{Logger: slog.New(handler)}
}

// parseLevel maps a config level string to slog. Unrecognised levels fall
// back to info rather than failing boot.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// With returns a child logger carrying extra default attributes, typically
// a component tag:
//
//	mqttLog := log.With("component", "mqtt")
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default is the bootstrap logger used before the config file is loaded.
// JSON to stdout at info level.
func Default() *Logger {
	return New(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, "dev")
}
