package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestHandler(cfg Config, buf *bytes.Buffer) *filteringHandler {
	cfg.process()
	base := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return newFilteringHandler(base, &cfg)
}

func handleTagged(t *testing.T, h *filteringHandler, msg, tag string) {
	t.Helper()
	r := slog.NewRecord(time.Now(), slog.LevelInfo, msg, 0)
	if tag != "" {
		r.AddAttrs(slog.String(tagKey, tag))
	}
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle: %v", err)
	}
}

func TestFilteringHandlerTags(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHandler(Config{EnabledTags: []string{"hiding"}, DisabledTags: []string{"noisy"}}, &buf)

	handleTagged(t, h, "kept", "Hiding")
	handleTagged(t, h, "dropped-untagged", "")
	handleTagged(t, h, "dropped-other", "buffer")

	out := buf.String()
	if !strings.Contains(out, "kept") {
		t.Errorf("expected tagged message in output, got %q", out)
	}
	if strings.Contains(out, "dropped") {
		t.Errorf("unexpected filtered message in output: %q", out)
	}
}

func TestFilteringHandlerDisabledWins(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHandler(Config{EnabledTags: []string{"a"}, DisabledTags: []string{"a"}}, &buf)
	handleTagged(t, h, "msg", "a")
	if buf.Len() != 0 {
		t.Errorf("disabled tag should win, got %q", buf.String())
	}
}

func TestAllowed(t *testing.T) {
	set := func(s ...string) map[string]struct{} { return sliceToSet(s) }
	tests := []struct {
		name              string
		enabled, disabled map[string]struct{}
		key               string
		want              bool
	}{
		{"no filters", nil, nil, "x", true},
		{"enabled hit", set("x"), nil, "x", true},
		{"enabled miss", set("y"), nil, "x", false},
		{"disabled hit", nil, set("x"), "x", false},
	}
	for _, tt := range tests {
		if got := allowed(tt.enabled, tt.disabled, tt.key); got != tt.want {
			t.Errorf("%s: allowed() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if l, ok := ParseLevel("WARNING"); !ok || l != slog.LevelWarn {
		t.Errorf("ParseLevel(WARNING) = %v, %v", l, ok)
	}
	if _, ok := ParseLevel("verbose"); ok {
		t.Error("ParseLevel(verbose) should report unknown")
	}
}
