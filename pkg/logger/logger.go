// Package logger provides a simple leveled logging interface.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Logger defines the logging interface
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Fatalf(format string, v ...interface{})
}

// Level represents logging levels
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

type logger struct {
	level int32
	out   *log.Logger
	err   *log.Logger
}

// New creates a logger whose level is taken from the LOG_LEVEL environment
// variable (debug/info/warn/error, default info).
func New() Logger {
	return &logger{
		level: int32(parseLevel(os.Getenv("LOG_LEVEL"))),
		out:   log.New(os.Stdout, "", log.LstdFlags),
		err:   log.New(os.Stderr, "", log.LstdFlags),
	}
}

func parseLevel(s string) Level {
	switch strings.ToLower(s) {
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

func (l *logger) enabled(level Level) bool {
	return level >= Level(atomic.LoadInt32(&l.level))
}

func (l *logger) logf(level Level, tag, format string, v ...interface{}) {
	if !l.enabled(level) {
		return
	}
	dst := l.out
	if level >= LevelError {
		dst = l.err
	}
	dst.Output(3, tag+" "+fmt.Sprintf(format, v...))
}

func (l *logger) Debugf(format string, v ...interface{}) {
	l.logf(LevelDebug, "[DEBUG]", format, v...)
}

func (l *logger) Infof(format string, v ...interface{}) {
	l.logf(LevelInfo, "[INFO]", format, v...)
}

func (l *logger) Warnf(format string, v ...interface{}) {
	l.logf(LevelWarn, "[WARN]", format, v...)
}

func (l *logger) Errorf(format string, v ...interface{}) {
	l.logf(LevelError, "[ERROR]", format, v...)
}

func (l *logger) Fatalf(format string, v ...interface{}) {
	l.logf(LevelError, "[ERROR]", format, v...)
	os.Exit(1)
}
