package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type LogLevel int

const (
	LogLevelInfo LogLevel = iota
	LogLevelWarning
	LogLevelError
)

var (
	infoLogger    *log.Logger
	warningLogger *log.Logger
	errorLogger   *log.Logger
	currentLevel  = LogLevelInfo
)

func init() {
	infoLogger = log.New(os.Stdout, "", 0)
	warningLogger = log.New(os.Stdout, "", 0)
	errorLogger = log.New(os.Stderr, "", 0)
}

// SetLevel sets the minimum log level to display
func SetLevel(level LogLevel) {
	currentLevel = level
}

// SetOutput sets the output destination for all loggers
func SetOutput(w io.Writer) {
	infoLogger.SetOutput(w)
	warningLogger.SetOutput(w)
	errorLogger.SetOutput(w)
}

// Info logs an informational message
func Info(format string, v ...interface{}) {
	if currentLevel <= LogLevelInfo {
		infoLogger.Printf(format, v...)
	}
}

// InfoTagged logs an informational message with tags
func InfoTagged(tags []string, format string, v ...interface{}) {
	if currentLevel <= LogLevelInfo {
		infoLogger.Printf(tagPrefix("", tags)+format, v...)
	}
}

// Warning logs a warning message
func Warning(format string, v ...interface{}) {
	if currentLevel <= LogLevelWarning {
		warningLogger.Printf("WARNING: "+format, v...)
	}
}

// WarningTagged logs a warning message with tags
func WarningTagged(tags []string, format string, v ...interface{}) {
	if currentLevel <= LogLevelWarning {
		warningLogger.Printf(tagPrefix("WARNING: ", tags)+format, v...)
	}
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	if currentLevel <= LogLevelError {
		errorLogger.Printf("ERROR: "+format, v...)
	}
}

// ErrorTagged logs an error message with tags
func ErrorTagged(tags []string, format string, v ...interface{}) {
	if currentLevel <= LogLevelError {
		errorLogger.Printf(tagPrefix("ERROR: ", tags)+format, v...)
	}
}

// DryRun logs an action that would have been performed in a normal run
func DryRun(format string, v ...interface{}) {
	infoLogger.Printf("[DRY RUN] "+format, v...)
}

func tagPrefix(level string, tags []string) string {
	if len(tags) == 0 {
		return level
	}
	return fmt.Sprintf("%s[%s] ", level, strings.Join(tags, "]["))
}
