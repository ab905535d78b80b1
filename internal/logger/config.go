package logger

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	DefaultLevel string        `yaml:"default_level" json:"default_level"` // debug, info, warn, error
	Timezone     string        `yaml:"timezone" json:"timezone"`           // "Local", "UTC" or IANA name
	Console      ConsoleOutput `yaml:"console" json:"console"`
	FileOutput   FileOutput    `yaml:"file_output" json:"file_output"`
}

// ConsoleOutput configures human-readable output on stdout.
type ConsoleOutput struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Level   string `yaml:"level" json:"level"`
}

// FileOutput configures JSON output appended to a file.
type FileOutput struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	Level   string `yaml:"level" json:"level"`
}

// Output buffer size for the log file writer
const fileBufferSize = 32 * 1024

// New builds a logger from cfg. The returned closer flushes and closes the
// log file when file output is enabled.
func New(cfg LoggingConfig) (*SlogLogger, func() error, error) {
	tz, err := loadTimezone(cfg.Timezone)
	if err != nil {
		return nil, nil, err
	}

	var handlers fanoutHandler
	closer := func() error { return nil }
	var flush func() error

	if cfg.Console.Enabled {
		handlers = append(handlers, newTextHandler(os.Stdout, parseLogLevel(levelOr(cfg.Console.Level, cfg.DefaultLevel)), tz))
	}

	if cfg.FileOutput.Enabled && cfg.FileOutput.Path != "" {
		fw, err := openFileWriter(cfg.FileOutput.Path)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, newJSONHandler(fw, parseLogLevel(levelOr(cfg.FileOutput.Level, cfg.DefaultLevel)), tz))
		flush = fw.Flush
		closer = fw.Close
	}

	if len(handlers) == 0 {
		handlers = append(handlers, newTextHandler(io.Discard, slog.LevelError, tz))
	}

	return &SlogLogger{handler: handlers, flush: flush}, closer, nil
}

func levelOr(level, fallback string) string {
	if level != "" {
		return level
	}
	return fallback
}

func loadTimezone(name string) (*time.Location, error) {
	switch name {
	case "", "Local":
		return time.Local, nil
	default:
		tz, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %s: %w", name, err)
		}
		return tz, nil
	}
}

// fileWriter is a mutex-protected buffered file writer.
type fileWriter struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
}

func openFileWriter(path string) (*fileWriter, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &fileWriter{file: f, buf: bufio.NewWriterSize(f, fileBufferSize)}, nil
}

func (w *fileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *fileWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Flush()
}

func (w *fileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.buf.Flush(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}
