// logger.go - Structured logging for the pool daemon.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds a console logger at the configured level.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
