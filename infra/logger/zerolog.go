package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger writing to stdout. When
// APP_ENV is "dev" output is human-readable console format; otherwise
// JSON. TRACKER_LOG_LEVEL overrides the default info level. All logs
// carry the provided component field.
func NewZerologLogger(component string) Logger {
	return NewZerologLoggerTo(os.Stdout, component)
}

// NewZerologLoggerTo is NewZerologLogger with an explicit destination,
// used by tests to capture output.
func NewZerologLoggerTo(w io.Writer, component string) Logger {
	return NewZerologLoggerLevelTo(w, component, "")
}

// NewZerologLoggerLevelTo additionally takes the configured minimum
// level. TRACKER_LOG_LEVEL still wins so operators can turn on debug
// output without touching the config file.
func NewZerologLoggerLevelTo(w io.Writer, component, level string) Logger {
	out := w
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	if env := os.Getenv("TRACKER_LOG_LEVEL"); env != "" {
		level = env
	}
	lvl := zerolog.InfoLevel
	if lv, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && lv != zerolog.NoLevel {
		lvl = lv
	}
	z := zerolog.New(out).Level(lvl).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
