package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Level represents the severity of an operational log message.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// String returns the uppercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name.
func ParseLevel(name string) (Level, error) {
	switch name {
	case "error":
		return LevelError, nil
	case "warn":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q, expected one of: error, warn, info, debug", name)
}

var (
	mu       sync.Mutex
	std      = log.New(os.Stderr, "", log.LstdFlags)
	minLevel = LevelInfo
)

// SetLevel sets the minimum level emitted by the package-level functions.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
}

// SetOutput redirects operational log output, primarily for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std = log.New(w, "", log.LstdFlags)
}

func logf(level Level, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if level > minLevel {
		return
	}
	std.Printf(level.String()+" "+format, args...)
}

// Debugf logs a debug message.
func Debugf(format string, args ...interface{}) {
	logf(LevelDebug, format, args...)
}

// Infof logs an informational message.
func Infof(format string, args ...interface{}) {
	logf(LevelInfo, format, args...)
}

// Warnf logs a warning.
func Warnf(format string, args ...interface{}) {
	logf(LevelWarn, format, args...)
}

// Errorf logs an error.
func Errorf(format string, args ...interface{}) {
	logf(LevelError, format, args...)
}
