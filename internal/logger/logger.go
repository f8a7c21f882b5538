// Package logger builds the application's zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a JSON logger in production and a human-readable console logger
// otherwise. An unknown level falls back to info.
func New(level string, production bool) zerolog.Logger {
	return newWithWriter(os.Stdout, level, production)
}

func newWithWriter(w io.Writer, level string, production bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if !production {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
