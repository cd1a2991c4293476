// Package logging provides structured logging for the operation registry using bolt.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/felixgeelhaar/bolt/v3"
)

var (
	mu            sync.RWMutex
	defaultLogger *bolt.Logger
)

// Errors
var (
	ErrUnknownLevel  = errors.New("unknown log level")
	ErrUnknownFormat = errors.New("unknown log format")
)

// Config configures the logger.
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format is the output format (json or console).
	Format string

	// Output is the output destination. Registry commands print results on
	// stdout, so logs default to stderr.
	Output io.Writer
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "console",
		Output: os.Stderr,
	}
}

// ProductionConfig returns a configuration for log shipping.
func ProductionConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Output: os.Stderr,
	}
}

// ParseLevel converts a level name to a bolt.Level.
func ParseLevel(s string) (bolt.Level, error) {
	switch s {
	case "trace":
		return bolt.TRACE, nil
	case "debug":
		return bolt.DEBUG, nil
	case "info":
		return bolt.INFO, nil
	case "warn":
		return bolt.WARN, nil
	case "error":
		return bolt.ERROR, nil
	default:
		return bolt.INFO, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// Configure replaces the default logger. Unknown levels and formats are
// rejected and leave the current logger in place.
func Configure(config Config) error {
	level, err := ParseLevel(config.Level)
	if err != nil {
		return err
	}

	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	var handler bolt.Handler
	switch config.Format {
	case "json":
		handler = bolt.NewJSONHandler(output)
	case "console", "":
		handler = bolt.NewConsoleHandler(output)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, config.Format)
	}

	logger := bolt.New(handler).SetLevel(level)

	mu.Lock()
	defaultLogger = logger
	mu.Unlock()
	return nil
}

// Get returns the default logger, initializing it if necessary.
func Get() *bolt.Logger {
	mu.RLock()
	logger := defaultLogger
	mu.RUnlock()
	if logger != nil {
		return logger
	}

	_ = Configure(DefaultConfig())

	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetLevel changes the log level of the default logger.
func SetLevel(level string) error {
	l, err := ParseLevel(level)
	if err != nil {
		return err
	}
	Get().SetLevel(l)
	return nil
}

// LogEvent is a wrapper that allows adding Fields to a bolt.Event.
type LogEvent struct {
	event *bolt.Event
}

// NewEvent wraps a bolt.Event for field application.
func NewEvent(e *bolt.Event) *LogEvent {
	return &LogEvent{event: e}
}

// Add applies a field to the event and returns the wrapper for chaining.
func (l *LogEvent) Add(f Field) *LogEvent {
	l.event = f(l.event)
	return l
}

// Msg sends the log event with a message.
func (l *LogEvent) Msg(msg string) {
	l.event.Msg(msg)
}

// Send sends the log event without a message.
func (l *LogEvent) Send() {
	l.event.Send()
}

// Trace starts a trace level event.
func Trace() *LogEvent { return NewEvent(Get().Trace()) }

// Debug starts a debug level event.
func Debug() *LogEvent { return NewEvent(Get().Debug()) }

// Info starts an info level event.
func Info() *LogEvent { return NewEvent(Get().Info()) }

// Warn starts a warn level event.
func Warn() *LogEvent { return NewEvent(Get().Warn()) }

// Error starts an error level event.
func Error() *LogEvent { return NewEvent(Get().Error()) }
