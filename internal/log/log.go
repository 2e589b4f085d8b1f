// Package log provides categorized, leveled logging for platarpus.
//
// The viewer owns the terminal, so log output goes to a file rather than
// stderr. Until Init is called, records are discarded; this keeps library
// packages free to log unconditionally.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Category tags a log record with the subsystem it came from.
type Category string

// Log categories, one per subsystem.
const (
	CatViewer     Category = "viewer"
	CatPlayback   Category = "playback"
	CatAsset      Category = "asset"
	CatCapability Category = "capability"
	CatLibrary    Category = "library"
	CatDB         Category = "db"
	CatConfig     Category = "config"
	CatUI         Category = "ui"
)

var (
	mu      sync.RWMutex
	logger  *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	logFile *os.File
)

// Init opens (or creates) the log file at path and routes all subsequent
// records to it at the given level. Creates the parent directory if needed.
func Init(path string, level slog.Level) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // G304: path comes from config
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return nil
}

// Close flushes and closes the log file. Safe to call without Init.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return err
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a debug-level record tagged with the category.
func Debug(cat Category, msg string, args ...any) {
	current().Debug(msg, append([]any{"cat", string(cat)}, args...)...)
}

// Info logs an info-level record tagged with the category.
func Info(cat Category, msg string, args ...any) {
	current().Info(msg, append([]any{"cat", string(cat)}, args...)...)
}

// Warn logs a warn-level record tagged with the category.
func Warn(cat Category, msg string, args ...any) {
	current().Warn(msg, append([]any{"cat", string(cat)}, args...)...)
}

// Error logs an error-level record tagged with the category.
func Error(cat Category, msg string, args ...any) {
	current().Error(msg, append([]any{"cat", string(cat)}, args...)...)
}

// ErrorErr logs an error-level record with the error attached as "error".
func ErrorErr(cat Category, msg string, err error, args ...any) {
	current().Error(msg, append([]any{"cat", string(cat), "error", err}, args...)...)
}

// SafeGo runs fn in a new goroutine, recovering and logging any panic.
// name identifies the goroutine in the panic record.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				Error(CatViewer, "goroutine panic", "goroutine", name, "panic", r)
			}
		}()
		fn()
	}()
}
