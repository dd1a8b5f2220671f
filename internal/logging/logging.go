package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LevelDebug is the debug log level
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
)

var (
	logger       *log.Logger
	currentLevel LogLevel
	initOnce     sync.Once
)

// initLogger builds the process-wide logger from DEBUG/LOG_LEVEL exactly once.
func initLogger() {
	initOnce.Do(func() {
		currentLevel = parseLevel(os.Getenv("DEBUG"), os.Getenv("LOG_LEVEL"))

		opts := log.Options{
			ReportTimestamp: true,
			TimeFormat:      "2006-01-02 15:04:05",
		}
		if currentLevel == LevelDebug {
			// Caller info is only worth the overhead when debugging
			opts.ReportCaller = true
		}

		logger = log.NewWithOptions(os.Stderr, opts)
		logger.SetLevel(charmLevel(currentLevel))
	})
}

// parseLevel resolves the effective level from the DEBUG and LOG_LEVEL
// environment values. DEBUG wins when set to a truthy value.
func parseLevel(debug, level string) LogLevel {
	switch strings.ToLower(debug) {
	case "1", "true", "yes", "on":
		return LevelDebug
	}

	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func charmLevel(l LogLevel) log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// GetLevel returns the current log level
func GetLevel() LogLevel {
	initLogger()
	return currentLevel
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

// SetOutput redirects log output, primarily for tests.
func SetOutput(w io.Writer) {
	initLogger()
	logger.SetOutput(w)
}

// Debug logs a debug message (only if DEBUG=true or LOG_LEVEL=debug)
func Debug(format string, args ...interface{}) {
	initLogger()
	logger.Debugf(format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	initLogger()
	logger.Infof(format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	initLogger()
	logger.Warnf(format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	initLogger()
	logger.Errorf(format, args...)
}

// Fatal logs an error message and exits
func Fatal(format string, args ...interface{}) {
	initLogger()
	logger.Fatalf(format, args...)
}

// Event emits a structured key-value event at info level, e.g.
//
//	logging.Event("conversion_started", "job", id, "format", "mp3")
func Event(name string, keyvals ...interface{}) {
	initLogger()
	logger.Info(name, keyvals...)
}

// DebugEvent emits a structured key-value event at debug level. Used for
// high-frequency events such as engine progress updates.
func DebugEvent(name string, keyvals ...interface{}) {
	initLogger()
	logger.Debug(name, keyvals...)
}

// Printf is a pass-through for messages that should always print
func Printf(format string, args ...interface{}) {
	initLogger()
	logger.Printf(format, args...)
}

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}
