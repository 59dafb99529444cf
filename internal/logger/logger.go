// internal/logger/logger.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	defaultLogger *slog.Logger
	logLevel      *slog.LevelVar
	initOnce      sync.Once
	activeConfig  *Config

	// debugFilter makes the filtering handler explain its decisions on stderr.
	debugFilter bool
)

// Init installs the process-wide logger. Only the first call has an effect.
func Init(cfg Config, output io.Writer) {
	initOnce.Do(func() {
		if output == nil {
			output = io.Discard
		}
		cfg.process()
		activeConfig = &cfg
		logLevel = new(slog.LevelVar)
		logLevel.Set(cfg.level.Level())

		opts := slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.SourceKey {
					if source, ok := a.Value.Any().(*slog.Source); ok && source != nil {
						source.File = filepath.Base(source.File)
					}
				}
				if a.Key == slog.TimeKey {
					a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
				}
				return a
			},
		}
		base := slog.NewTextHandler(output, &opts)
		defaultLogger = slog.New(newFilteringHandler(base, activeConfig))

		r := slog.NewRecord(time.Now(), slog.LevelInfo, "Logger initialized", 0)
		r.AddAttrs(slog.String("level", cfg.level.Level().String()))
		_ = base.Handle(context.Background(), r)
	})
}

// SetDebugFilter toggles diagnostics for the filtering handler.
func SetDebugFilter(enabled bool) {
	debugFilter = enabled
}

func ensureInitialized() {
	initOnce.Do(func() {
		logLevel = new(slog.LevelVar)
		logLevel.Set(slog.LevelInfo)
		defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: logLevel}))
	})
}

// logAtLevel builds a record carrying the caller of the public wrapper as its source.
func logAtLevel(level slog.Level, tag string, format string, args ...interface{}) {
	ensureInitialized()
	if !defaultLogger.Enabled(context.Background(), level) {
		return
	}

	var pcs [1]uintptr
	// runtime.Callers, logAtLevel, wrapper
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	if tag != "" {
		r.AddAttrs(slog.String(tagKey, tag))
	}
	_ = defaultLogger.Handler().Handle(context.Background(), r)
}

// Debugf logs a debug message using Printf-style formatting.
func Debugf(format string, args ...interface{}) {
	logAtLevel(slog.LevelDebug, "", format, args...)
}

// Infof logs an info message using Printf-style formatting.
func Infof(format string, args ...interface{}) {
	logAtLevel(slog.LevelInfo, "", format, args...)
}

// Warnf logs a warning message using Printf-style formatting.
func Warnf(format string, args ...interface{}) {
	logAtLevel(slog.LevelWarn, "", format, args...)
}

// Errorf logs an error message using Printf-style formatting.
func Errorf(format string, args ...interface{}) {
	logAtLevel(slog.LevelError, "", format, args...)
}

// DebugTagf logs a debug message carrying a tag that can be filtered on.
func DebugTagf(tag string, format string, args ...interface{}) {
	logAtLevel(slog.LevelDebug, tag, format, args...)
}

// InfoTagf logs an info message carrying a tag that can be filtered on.
func InfoTagf(tag string, format string, args ...interface{}) {
	logAtLevel(slog.LevelInfo, tag, format, args...)
}

// Fatalf logs an error message then exits.
func Fatalf(format string, args ...interface{}) {
	logAtLevel(slog.LevelError, "", format, args...)
	os.Exit(1)
}

// SetLevel changes the minimum level at runtime.
func SetLevel(level slog.Level) {
	ensureInitialized()
	logLevel.Set(level)
}

// Get retrieves the configured logger instance.
func Get() *slog.Logger {
	ensureInitialized()
	return defaultLogger
}
