// Package logger holds the process-wide zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the global logger. format is "console" or "json".
func Init(level, format string) error {
	return InitWithWriter(level, format, os.Stdout)
}

// InitWithWriter is Init with an explicit output, used by tests.
func InitWithWriter(level, format string, out io.Writer) error {
	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level '%s': %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if out == nil {
		out = os.Stdout
	}
	if strings.ToLower(format) == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	Logger = zerolog.New(out).With().Timestamp().Logger()
	log.Logger = Logger
	return nil
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

func Info() *zerolog.Event {
	return Logger.Info()
}

func Debug() *zerolog.Event {
	return Logger.Debug()
}

func Warn() *zerolog.Event {
	return Logger.Warn()
}

func Error() *zerolog.Event {
	return Logger.Error()
}
