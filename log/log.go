// Package log provides a global, leveled, structured logger for the whole
// repository, backed by zerolog. It is initialized at import time from the
// LOG_LEVEL environment variable so that logging never panics, and can be
// re-initialized explicitly with Init.
package log

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

var log zerolog.Logger

func init() {
	// Allow overriding the default log level via $LOG_LEVEL, so that the
	// environment variable can be set globally even when running tests.
	Init(cmp.Or(os.Getenv("LOG_LEVEL"), "error"), "stderr")
}

// Logger provides access to the global logger.
func Logger() *zerolog.Logger { return &log }

// Level returns the current log level as a string.
func Level() string {
	switch log.GetLevel() {
	case zerolog.DebugLevel:
		return LogLevelDebug
	case zerolog.InfoLevel:
		return LogLevelInfo
	case zerolog.WarnLevel:
		return LogLevelWarn
	default:
		return LogLevelError
	}
}

// Init initializes the global logger. Output can be "stdout", "stderr" or a
// file path.
func Init(level, output string) {
	var out io.Writer
	switch output {
	case "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			panic(fmt.Sprintf("cannot open log output %q: %v", output, err))
		}
		out = f
	}
	log = zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger().Level(levelFromString(level))
}

func levelFromString(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelInfo:
		return zerolog.InfoLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// kvLog adds the key-value pairs to the event and sends it with msg.
// Keys are expected at even positions, any odd length tail is ignored.
func kvLog(e *zerolog.Event, msg string, keyvalues []any) {
	for i := 0; i+1 < len(keyvalues); i += 2 {
		key, ok := keyvalues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keyvalues[i])
		}
		e = e.Interface(key, keyvalues[i+1])
	}
	e.Msg(msg)
}

// Debugw logs a message at debug level with structured key-value pairs.
func Debugw(msg string, keyvalues ...any) { kvLog(log.Debug(), msg, keyvalues) }

// Infow logs a message at info level with structured key-value pairs.
func Infow(msg string, keyvalues ...any) { kvLog(log.Info(), msg, keyvalues) }

// Warnw logs a message at warn level with structured key-value pairs.
func Warnw(msg string, keyvalues ...any) { kvLog(log.Warn(), msg, keyvalues) }

// Errorw logs an error with a message at error level.
func Errorw(err error, msg string) { log.Error().Err(err).Msg(msg) }

// Debug logs a message at debug level.
func Debug(args ...any) { log.Debug().Msg(fmt.Sprint(args...)) }

// Info logs a message at info level.
func Info(args ...any) { log.Info().Msg(fmt.Sprint(args...)) }

// Warn logs a message at warn level.
func Warn(args ...any) { log.Warn().Msg(fmt.Sprint(args...)) }

// Error logs a message at error level.
func Error(args ...any) { log.Error().Msg(fmt.Sprint(args...)) }

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) { log.Debug().Msgf(format, args...) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) { log.Info().Msgf(format, args...) }

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) { log.Warn().Msgf(format, args...) }

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) { log.Error().Msgf(format, args...) }

// Fatalf logs a formatted message at fatal level and exits.
func Fatalf(format string, args ...any) { log.Fatal().Msgf(format, args...) }
