package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Logger interface for structured logging. Fields are alternating key/value pairs.
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Fatal(msg string, err error, fields ...interface{})
}

// Level controls which messages are written
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts a LOG_LEVEL value, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SimpleLogger implements Logger with basic Go logging
type SimpleLogger struct {
	level       Level
	infoLogger  *log.Logger
	errorLogger *log.Logger
	warnLogger  *log.Logger
	debugLogger *log.Logger
}

// NewSimpleLogger creates a logger writing info and below to stdout and errors to stderr
func NewSimpleLogger() Logger {
	return NewLogger(os.Stdout, os.Stderr, LevelInfo)
}

// NewLogger creates a SimpleLogger with explicit outputs and minimum level
func NewLogger(out, errOut io.Writer, level Level) *SimpleLogger {
	flags := log.Ldate | log.Ltime | log.LUTC
	return &SimpleLogger{
		level:       level,
		infoLogger:  log.New(out, "INFO: ", flags),
		errorLogger: log.New(errOut, "ERROR: ", flags),
		warnLogger:  log.New(out, "WARN: ", flags),
		debugLogger: log.New(out, "DEBUG: ", flags),
	}
}

// Info logs an info message
func (l *SimpleLogger) Info(msg string, fields ...interface{}) {
	if l.level <= LevelInfo {
		l.infoLogger.Print(msg + formatFields(fields))
	}
}

// Error logs an error message
func (l *SimpleLogger) Error(msg string, err error, fields ...interface{}) {
	l.errorLogger.Printf("%s: %v%s", msg, err, formatFields(fields))
}

// Warn logs a warning message
func (l *SimpleLogger) Warn(msg string, fields ...interface{}) {
	if l.level <= LevelWarn {
		l.warnLogger.Print(msg + formatFields(fields))
	}
}

// Debug logs a debug message
func (l *SimpleLogger) Debug(msg string, fields ...interface{}) {
	if l.level <= LevelDebug {
		l.debugLogger.Print(msg + formatFields(fields))
	}
}

// Fatal logs a fatal error and exits
func (l *SimpleLogger) Fatal(msg string, err error, fields ...interface{}) {
	l.errorLogger.Fatalf("%s: %v%s", msg, err, formatFields(fields))
}

// formatFields renders key/value pairs as " key=value key=value".
// A trailing key without a value is written as key=(missing).
func formatFields(fields []interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(fields); i += 2 {
		b.WriteByte(' ')
		b.WriteString(fmt.Sprint(fields[i]))
		b.WriteByte('=')
		if i+1 < len(fields) {
			b.WriteString(fmt.Sprint(fields[i+1]))
		} else {
			b.WriteString("(missing)")
		}
	}
	return b.String()
}

type nopLogger struct{}

// NewNopLogger returns a Logger that discards everything. Fatal still exits.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Info(string, ...interface{})         {}
func (nopLogger) Error(string, error, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})         {}
func (nopLogger) Debug(string, ...interface{})        {}
func (nopLogger) Fatal(msg string, err error, _ ...interface{}) {
	log.Fatalf("%s: %v", msg, err)
}
