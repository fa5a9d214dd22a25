package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger constructs the service logger. Development gets a console writer
// at debug level, test discards everything, anything else logs JSON at info.
func NewLogger(appEnv string) zerolog.Logger {
	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel
	switch appEnv {
	case "development":
		level = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	case "test":
		out = io.Discard
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "tailorpreview").
		Logger()
}

// Logger aliases zerolog.Logger so packages can accept the logging contract
// without importing the third-party module directly.
type Logger = zerolog.Logger

// NopLogger returns a logger that drops every event.
func NopLogger() Logger {
	return zerolog.Nop()
}
