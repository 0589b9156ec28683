package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZerologLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerTo(&buf, "test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")

	out := buf.String()
	assert.Contains(t, out, `"component":"test"`)
	assert.Contains(t, out, "info test")
	// Default level is info; debug lines must be filtered.
	assert.False(t, strings.Contains(out, "debug 1"))
}

func TestZerologLoggerConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerLevelTo(&buf, "test", "debug")
	l.Debugf("debug %d", 1)
	assert.Contains(t, buf.String(), "debug 1")
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Infof("ignored")
	l.Errorf("ignored")
}
