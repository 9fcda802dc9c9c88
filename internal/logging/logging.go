// Package logging configures stackctl's structured logger.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a zerolog.Logger writing human-readable console output to
// stderr, at debug level if debug is set, info level otherwise.
func New(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
