// Package logger configures the host-side zerolog logger once for the whole process.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

var (
	once sync.Once
	log  zerolog.Logger
)

// Output is where logs are written. It defaults to stderr so stdout stays free for the console
var Output io.Writer = os.Stderr

func configure(level zerolog.Level) {
	zerolog.TimeFieldFormat = timeFormat

	output := zerolog.ConsoleWriter{
		Out:        Output,
		TimeFormat: timeFormat,
	}

	log = zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// Get returns the process logger, configuring it at level on first use
func Get(level zerolog.Level) zerolog.Logger {
	once.Do(func() {
		configure(level)
	})
	return log
}

// ParseLevel maps a LOG_LEVEL value to a zerolog level. Empty or unknown values use info
func ParseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
