package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
)

var (
	infoColor  = color.New(color.FgGreen).SprintFunc()
	debugColor = color.New(color.FgCyan).SprintFunc()
	traceColor = color.New(color.FgYellow).SprintFunc()
	errorColor = color.New(color.FgRed).SprintFunc()
)

// SimpleLogSink implements logr.LogSink with human-readable, optionally
// colored output. Key/value pairs are written on indented lines below the message.
type SimpleLogSink struct {
	writer       io.Writer
	minVerbosity int
	name         string
	keyValues    []interface{}
	useColor     bool

	// shared by every sink derived through WithName/WithValues
	mu *sync.Mutex
}

// NewSimpleLogSink creates a sink writing to writer, or os.Stderr when writer is nil.
func NewSimpleLogSink(writer io.Writer, minVerbosity int, useColor bool) *SimpleLogSink {
	if writer == nil {
		writer = os.Stderr
	}
	return &SimpleLogSink{
		writer:       writer,
		minVerbosity: minVerbosity,
		keyValues:    []interface{}{},
		useColor:     useColor,
		mu:           &sync.Mutex{},
	}
}

// NewSimpleLogger wraps a SimpleLogSink in a logr.Logger.
func NewSimpleLogger(writer io.Writer, minVerbosity int, useColor bool) logr.Logger {
	return logr.New(NewSimpleLogSink(writer, minVerbosity, useColor))
}

func (s *SimpleLogSink) Init(info logr.RuntimeInfo) {}

func (s *SimpleLogSink) Enabled(level int) bool {
	return level <= s.minVerbosity
}

func (s *SimpleLogSink) Info(level int, msg string, keysAndValues ...interface{}) {
	if !s.Enabled(level) {
		return
	}
	s.log(false, level, msg, keysAndValues...)
}

func (s *SimpleLogSink) Error(err error, msg string, keysAndValues ...interface{}) {
	kvs := append(append([]interface{}{}, keysAndValues...), "error", err)
	s.log(true, 0, msg, kvs...)
}

func (s *SimpleLogSink) WithValues(keysAndValues ...interface{}) logr.LogSink {
	clone := s.clone()
	clone.keyValues = append(clone.keyValues, keysAndValues...)
	return clone
}

func (s *SimpleLogSink) WithName(name string) logr.LogSink {
	clone := s.clone()
	if s.name != "" {
		clone.name = s.name + "." + name
	} else {
		clone.name = name
	}
	return clone
}

func (s *SimpleLogSink) clone() *SimpleLogSink {
	return &SimpleLogSink{
		writer:       s.writer,
		minVerbosity: s.minVerbosity,
		name:         s.name,
		keyValues:    append([]interface{}{}, s.keyValues...),
		useColor:     s.useColor,
		mu:           s.mu,
	}
}

func (s *SimpleLogSink) label(isError bool, level int) string {
	var text string
	var paint func(a ...interface{}) string
	switch {
	case isError:
		text, paint = "[ERROR]", errorColor
	case level == LevelInfo:
		text, paint = "[INFO]", infoColor
	case level == LevelDebug:
		text, paint = "[DEBUG]", debugColor
	case level == LevelTrace:
		text, paint = "[TRACE]", traceColor
	default:
		return fmt.Sprintf("[LEVEL %d]", level)
	}
	if s.useColor {
		return paint(text)
	}
	return text
}

func (s *SimpleLogSink) log(isError bool, level int, msg string, keysAndValues ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := msg
	if s.name != "" {
		line = fmt.Sprintf("[%s] %s", s.name, msg)
	}
	fmt.Fprintf(s.writer, "%s %s\n", s.label(isError, level), line)

	all := append(append([]interface{}{}, s.keyValues...), keysAndValues...)
	for i := 0; i+1 < len(all); i += 2 {
		key, ok := all[i].(string)
		if !ok {
			key = fmt.Sprintf("key%d", i/2)
		}
		fmt.Fprintf(s.writer, "  %s: %v\n", key, all[i+1])
	}
}
