package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Output encodings.
const (
	ConsoleFormat = "console"
	JSONFormat    = "json"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The first call (or the first
// Configure) fixes the level; later calls return the same instance.
func Get(level string) *Logger {
	return Configure(Options{Level: level})
}

// Configure initializes the process-wide logger from opts if that has not
// happened yet and returns it.
func Configure(opts Options) *Logger {
	once.Do(func() {
		globalLogger = New(opts)
	})
	return globalLogger
}
