// Package logger provides the structured logging used across the
// pipeline, backed by rs/zerolog.
package logger

import (
	"os"

	corelogger "github.com/knhuang/robotaxi-safety-tracker/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New returns a Logger for the given component. Output format is
// chosen via the APP_ENV variable: console in dev, JSON otherwise.
func New(component string) Logger {
	return NewZerologLogger(component)
}

// NewWithLevel is New with the configured minimum level.
func NewWithLevel(component, level string) Logger {
	return NewZerologLoggerLevelTo(os.Stdout, component, level)
}
