// Package logger configures the zerolog logger used across the service.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure sets the global log level and returns a logger writing to stdout.
// format "console" selects a human readable writer; anything else is JSON.
// An unknown or empty level falls back to info.
func Configure(level, format string) zerolog.Logger {
	return configure(os.Stdout, level, format)
}

func configure(out io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).
		With().
		Timestamp().
		Str("service", "katalog").
		Logger()

	log.Logger = logger
	return logger
}
