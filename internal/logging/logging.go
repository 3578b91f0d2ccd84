// Package logging configures the process-wide structured logger. Logs go to
// a file under the config directory so normal CLI output stays clean; the
// console writer is only attached in debug sessions.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// logger is the process logger. Until Setup runs it discards everything,
// so packages can log unconditionally.
var logger = zerolog.New(io.Discard)

// L returns the process logger.
func L() zerolog.Logger {
	return logger
}

// Setup initializes the process logger. Output always goes to logFile when
// one is given; console, when console is true, gets a human-readable writer
// on stderr. Unknown level names fall back to info rather than failing —
// a bad LogLevel in the config file must never take the tool down.
func Setup(level, logFile string, console bool) zerolog.Logger {
	var writers []io.Writer

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err == nil {
			if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				writers = append(writers, f)
			}
		}
	}
	if console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	logger = zerolog.New(io.MultiWriter(writers...)).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
	return logger
}

// ParseLevel maps a level name to a zerolog level. Unrecognized names map
// to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}
