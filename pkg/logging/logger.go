// Package logging configures structured logging with zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level: debug, info, warn or error.
	// Unknown values fall back to info.
	Level string

	// Pretty enables human-readable console output instead of JSON.
	Pretty bool

	// Output is the writer logs go to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// NewLogger returns a child of the global logger tagged with a component
// name. Components in this codebase: fetcher, assembler, hn, server.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Field conventions used across the codebase:
//   - url: upstream request URL
//   - status: HTTP status code
//   - error_class: failure classification (network, server, rate_limited, client, payload)
//   - attempt: 0-based fetch attempt number
//   - backoff: delay before the next retry
//   - batch_id: correlation id for one assembler batch
//   - cache_hits / fetched / failed: per-batch resolution counts
//   - duration: elapsed wall time
