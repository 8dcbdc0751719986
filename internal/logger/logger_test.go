package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel(""))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

func TestSimpleLogger_Fields(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLogger(&out, &errOut, LevelInfo)

	l.Info("lead scored", "lead_id", "abc", "total_score", 68)
	l.Error("export failed", errors.New("disk full"), "format")

	assert.Contains(t, out.String(), "INFO: ")
	assert.Contains(t, out.String(), "lead scored lead_id=abc total_score=68")
	assert.Contains(t, errOut.String(), "export failed: disk full format=(missing)")
}

func TestSimpleLogger_LevelFiltering(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLogger(&out, &errOut, LevelWarn)

	l.Debug("debug line")
	l.Info("info line")
	l.Warn("warn line")

	assert.False(t, strings.Contains(out.String(), "debug line"))
	assert.False(t, strings.Contains(out.String(), "info line"))
	assert.Contains(t, out.String(), "warn line")
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Info("x", "k", "v")
		l.Warn("x")
		l.Debug("x")
		l.Error("x", errors.New("y"))
	})
}
