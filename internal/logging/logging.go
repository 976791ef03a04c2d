// Package logging provides the logr sink used by the gptinfo command line.
package logging

import (
	"io"

	"github.com/go-logr/logr"
)

// Verbosity levels passed to logr.Logger.V.
const (
	LevelInfo  = 0
	LevelDebug = 1
	LevelTrace = 2
)

// New returns a logger for the given verbosity flags. quiet wins over
// verbose and discards everything.
func New(w io.Writer, verbose, quiet, useColor bool) logr.Logger {
	if quiet {
		return logr.Discard()
	}
	level := LevelInfo
	if verbose {
		level = LevelTrace
	}
	return NewSimpleLogger(w, level, useColor)
}
