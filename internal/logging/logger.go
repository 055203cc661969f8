// Package logging sets up the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/Wesleydefanseu/TaskFlow-sub000/internal/config"
)

var globalLogger = zerolog.Nop()

// Logger returns the process logger. It discards everything until
// InitDefaultLogger has run.
func Logger() zerolog.Logger {
	return globalLogger
}

// InitDefaultLogger installs an info-level JSON logger on w.
func InitDefaultLogger(w io.Writer) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"

	globalLogger = zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Logger()

	globalLogger.Debug().Msg("initialized default logger")
}

// InitApplicationLogger switches level and output format for env. Local
// runs get a console writer on w.
func InitApplicationLogger(env string, w io.Writer) error {
	switch env {
	case config.EnvDev:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case config.EnvProd:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case config.EnvLocal:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = w
		w = consoleWriter
	default:
		globalLogger.Error().
			Str("env", env).
			Msg("unknown env")
		return fmt.Errorf("unknown env: %s", env)
	}

	globalLogger = globalLogger.Output(w)
	globalLogger.Debug().
		Str("env", env).
		Msg("initialized application logger")
	return nil
}

// SetLevel overrides the global level, e.g. for a --verbose flag.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}
