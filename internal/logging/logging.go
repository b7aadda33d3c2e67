// Package logging configures the structured logger used across the CLI
// and the batch driver.
package logging

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a leveled, timestamped logger writing to w.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
}

// Discard returns a logger that drops all output.
func Discard() *log.Logger {
	return New(io.Discard, log.FatalLevel)
}

// LevelFor maps the CLI verbosity flags to a log level. quiet wins over
// verbose.
func LevelFor(verbose, quiet bool) log.Level {
	switch {
	case quiet:
		return log.ErrorLevel
	case verbose:
		return log.DebugLevel
	default:
		return log.InfoLevel
	}
}
