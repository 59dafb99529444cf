package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const tagKey = "tag" // The slog attribute key used for filtering tags

// filteringHandler wraps a base slog.Handler and drops records by tag, package or file.
type filteringHandler struct {
	baseHandler slog.Handler
	cfg         *Config
}

func newFilteringHandler(base slog.Handler, cfg *Config) *filteringHandler {
	return &filteringHandler{
		baseHandler: base,
		cfg:         cfg,
	}
}

// Enabled defers to the base handler.
func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.baseHandler.Enabled(ctx, level)
}

// allowed applies the enable/disable pair for one dimension. Disabled wins.
func allowed(enabled, disabled map[string]struct{}, key string) bool {
	if disabled != nil {
		if _, found := disabled[key]; found {
			return false
		}
	}
	if enabled != nil {
		_, found := enabled[key]
		return found
	}
	return true
}

// recordSource resolves the package directory and file name of a record.
func recordSource(r slog.Record) (pkg, file string, ok bool) {
	if r.PC == 0 {
		return "", "", false
	}
	frames := runtime.CallersFrames([]uintptr{r.PC})
	frame, _ := frames.Next()
	if frame.File == "" {
		return "", "", false
	}
	return filepath.Base(filepath.Dir(frame.File)), filepath.Base(frame.File), true
}

// Handle applies the filters before passing the record on.
func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg == nil {
		return h.baseHandler.Handle(ctx, r)
	}

	if pkg, file, ok := recordSource(r); ok {
		if !allowed(h.cfg.enabledPackagesSet, h.cfg.disabledPackagesSet, strings.ToLower(pkg)) {
			h.trace("package %q filtered: %s", pkg, r.Message)
			return nil
		}
		if !allowed(h.cfg.enabledFilesSet, h.cfg.disabledFilesSet, strings.ToLower(file)) {
			h.trace("file %q filtered: %s", file, r.Message)
			return nil
		}
	}

	var tag string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag = strings.ToLower(a.Value.String())
			return false
		}
		return true
	})

	if tag == "" {
		// Untagged messages are dropped once a tag allow-list exists.
		if h.cfg.enabledTagsSet != nil {
			h.trace("untagged message filtered: %s", r.Message)
			return nil
		}
	} else if !allowed(h.cfg.enabledTagsSet, h.cfg.disabledTagsSet, tag) {
		h.trace("tag %q filtered: %s", tag, r.Message)
		return nil
	}

	return h.baseHandler.Handle(ctx, r)
}

func (h *filteringHandler) trace(format string, args ...interface{}) {
	if debugFilter {
		fmt.Fprintf(os.Stderr, "[FILTER] "+format+"\n", args...)
	}
}

// WithAttrs returns a new handler with attributes added.
func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newFilteringHandler(h.baseHandler.WithAttrs(attrs), h.cfg)
}

// WithGroup returns a new handler with a group added.
func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return newFilteringHandler(h.baseHandler.WithGroup(name), h.cfg)
}
