// Package mudlog is the ambient structured-logging wrapper every other
// package calls instead of the standard library's bare log or fmt.
// Output goes to a rotated file via lumberjack, following the donor
// project's own dependency on gopkg.in/natefinch/lumberjack for log
// rotation; formatting is slog's structured key/value style, a natural
// fit on top of a rotated io.Writer.
package mudlog

import (
	"log/slog"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.Mutex
	logger *slog.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

// Setup points the package logger at a rotated file, sized per the
// config.Logging fields. Call once at startup; safe to call again (e.g.
// after a config reload) to retarget the writer.
func Setup(path string, maxSizeMB, maxBackups, maxAgeDays int, compress bool) {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   compress,
	}
	mu.Lock()
	logger = slog.New(slog.NewTextHandler(w, nil))
	mu.Unlock()
}

func current() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Info logs an informational event with structured key/value context.
func Info(msg string, args ...any) { current().Info(msg, args...) }

// Error logs a failure with structured key/value context.
func Error(msg string, args ...any) { current().Error(msg, args...) }

// Warn logs a recoverable anomaly with structured key/value context.
func Warn(msg string, args ...any) { current().Warn(msg, args...) }

// Debug logs fine-grained diagnostic detail with structured key/value context.
func Debug(msg string, args ...any) { current().Debug(msg, args...) }
