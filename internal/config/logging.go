package config

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger builds the logger described by the logging section. Console
// output is meant for humans on stderr; json for CI logs.
func (l LoggingConfig) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if l.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
