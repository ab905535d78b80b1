package logger

import (
	"os"
	"sync"
	"time"
)

var (
	globalLogger   Logger
	globalLoggerMu sync.Mutex
)

// SetGlobal sets the global logger instance.
// This should be called once during application startup after loading configuration.
func SetGlobal(l Logger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = l
}

// Global returns the global logger. If none has been set it falls back to
// an info-level console logger.
func Global() Logger {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()

	if globalLogger == nil {
		globalLogger = NewSlogLogger(os.Stdout, LogLevelInfo, time.Local)
	}
	return globalLogger
}
