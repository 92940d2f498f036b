// Package sysutil holds small process-level helpers shared by the
// embedding applications: logger setup and related glue that belongs
// to neither the domain nor any single component.
package sysutil

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// SetLogLevel configures the global zerolog level based on a string value.
// Supported values (case-insensitive): debug, info, warn, error, fatal, panic.
func SetLogLevel(lvl string) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info", "":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// LogWriter returns the writer the global logger should use: a
// human-readable console writer when pretty is set, raw JSON to stderr
// otherwise.
func LogWriter(pretty bool) io.Writer {
	if pretty {
		return zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return os.Stderr
}
