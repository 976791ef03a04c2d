package app

import (
	"context"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/deploymenttheory/go-gptinfo/internal/logging"
)

// Context holds application-wide configuration and state
type Context struct {
	context.Context

	// Output preferences
	OutputFormat string
	Verbose      bool
	Quiet        bool

	// Destinations for the report and for diagnostics
	Stdout io.Writer
	Stderr io.Writer

	Logger logr.Logger
}

// NewContext creates a new application context
func NewContext() *Context {
	return &Context{
		Context:      context.Background(),
		OutputFormat: "text",
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Logger:       logr.Discard(),
	}
}

// Log outputs a message based on verbosity settings
func (c *Context) Log(message string, keysAndValues ...interface{}) {
	if !c.Quiet && c.Verbose {
		c.Logger.V(logging.LevelDebug).Info(message, keysAndValues...)
	}
}
