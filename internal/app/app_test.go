package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bethropolis/veil/internal/config"
	"github.com/bethropolis/veil/internal/hiding"
	"github.com/bethropolis/veil/internal/input"
	"github.com/gdamore/tcell/v2"
)

// writeNumbered writes a file of n lines "l1" ... "ln".
func writeNumbered(t *testing.T, n int) string {
	t.Helper()
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("l%d", i+1)
	}
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Hiding.HideByDefault = false
	cfg.Viewer.SystemClipboard = false
	cfg.Viewer.WatchFile = false
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, path string, clip func(string) error) *App {
	t.Helper()
	a, err := NewApp(cfg, path, Options{
		Screen:    tcell.NewSimulationScreen("UTF-8"),
		ThemesDir: t.TempDir(),
		Clipboard: clip,
	})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return a
}

func do(a *App, actions ...input.Action) {
	for _, act := range actions {
		a.handleAction(input.ActionEvent{Action: act})
	}
}

func hiddenLines(a *App, viewIndex int) []int {
	var out []int
	heights := a.views[viewIndex].HeightTree()
	for n := 1; n <= a.doc.LineCount(); n++ {
		if heights.IsLineCollapsed(n) {
			out = append(out, n)
		}
	}
	return out
}

func TestApplyAndClear(t *testing.T) {
	cfg := testConfig()
	cfg.Hiding.Line = 4
	a := newTestApp(t, cfg, writeNumbered(t, 6), nil)
	defer a.shutdown()

	do(a, input.ActionApplyStrategy)
	if a.hidings.Len() != 1 || !a.hidings.AllHidings()[0].IsHidden() {
		t.Fatalf("expected one hidden section, got %v", a.hidings.AllHidings())
	}
	if got := fmt.Sprint(hiddenLines(a, 0)); got != "[4 5 6]" {
		t.Errorf("hidden lines = %s", got)
	}

	do(a, input.ActionClearHidings)
	if a.hidings.Len() != 0 || len(hiddenLines(a, 0)) != 0 {
		t.Error("clear left hidings behind")
	}
	if a.strategyApplied {
		t.Error("clear should stop refreshing")
	}
}

func TestHideByDefaultAndSplit(t *testing.T) {
	cfg := testConfig()
	cfg.Hiding.HideByDefault = true
	cfg.Hiding.Line = 3
	cfg.Viewer.SplitViews = true
	a := newTestApp(t, cfg, writeNumbered(t, 5), nil)
	defer a.shutdown()

	if len(a.views) != 2 || len(a.hidings.Views()) != 2 {
		t.Fatalf("views = %d, attached = %d", len(a.views), len(a.hidings.Views()))
	}
	for i := range a.views {
		if got := fmt.Sprint(hiddenLines(a, i)); got != "[3 4 5]" {
			t.Errorf("view %d hidden lines = %s", i, got)
		}
	}

	do(a, input.ActionSwitchView)
	if a.active != 1 {
		t.Errorf("active view = %d", a.active)
	}
	second := a.views[1]
	do(a, input.ActionToggleSplit)
	if len(a.views) != 1 || a.active != 0 || len(a.hidings.Views()) != 1 {
		t.Errorf("split not closed: views %d, active %d, attached %d", len(a.views), a.active, len(a.hidings.Views()))
	}
	if !second.IsClosed() {
		t.Error("second view left open")
	}
}

func TestToggleAtTop(t *testing.T) {
	cfg := testConfig()
	cfg.Hiding.Line = 2
	a := newTestApp(t, cfg, writeNumbered(t, 4), nil)
	defer a.shutdown()

	do(a, input.ActionApplyStrategy)
	s := a.hidings.AllHidings()[0]

	do(a, input.ActionToggleHiding)
	if s.IsHidden() {
		t.Fatal("toggle below the top line should show the section")
	}
	do(a, input.ActionToggleHiding)
	if !s.IsHidden() {
		t.Fatal("second toggle should hide it again")
	}
}

func TestYankVisible(t *testing.T) {
	cfg := testConfig()
	cfg.Hiding.Line = 4
	a := newTestApp(t, cfg, writeNumbered(t, 6), nil)
	defer a.shutdown()

	do(a, input.ActionApplyStrategy, input.ActionYank)
	if a.register != "l1\nl2\nl3" {
		t.Errorf("register = %q", a.register)
	}

	cfg.Viewer.SystemClipboard = true
	var clip string
	a.writeClipboard = func(s string) error { clip = s; return nil }
	do(a, input.ActionClearHidings, input.ActionYank)
	if clip != "l1\nl2\nl3\nl4\nl5\nl6" {
		t.Errorf("clipboard = %q", clip)
	}

	a.writeClipboard = func(string) error { return errors.New("no clipboard") }
	do(a, input.ActionApplyStrategy, input.ActionYank)
	if a.register != "l1\nl2\nl3" {
		t.Errorf("failed clipboard write should fall back to the register, got %q", a.register)
	}
}

func TestDeleteLineRefreshesHidings(t *testing.T) {
	cfg := testConfig()
	cfg.Hiding.Line = 3
	a := newTestApp(t, cfg, writeNumbered(t, 6), nil)
	defer a.shutdown()

	do(a, input.ActionApplyStrategy, input.ActionDeleteLine)
	if a.doc.Text() != "l2\nl3\nl4\nl5\nl6" || a.generation != 1 {
		t.Fatalf("text = %q, generation %d", a.doc.Text(), a.generation)
	}
	s := a.hidings.AllHidings()[0]
	if s.StartOffset() != 3 || s.EndOffset() != 14 {
		t.Fatalf("section moved to %v, want [3, 14)", s)
	}

	select {
	case r := <-a.refreshed:
		a.applyRefresh(r)
	case <-time.After(2 * time.Second):
		t.Fatal("no refresh delivered")
	}

	sections := a.hidings.AllHidings()
	if len(sections) != 1 || sections[0].StartOffset() != 6 || !sections[0].IsHidden() {
		t.Errorf("after refresh: %v", sections)
	}
	if got := fmt.Sprint(hiddenLines(a, 0)); got != "[3 4 5]" {
		t.Errorf("hidden lines = %s", got)
	}
}

func TestReloadFromDisk(t *testing.T) {
	cfg := testConfig()
	cfg.Hiding.Line = 4
	path := writeNumbered(t, 6)
	a := newTestApp(t, cfg, path, nil)
	defer a.shutdown()

	do(a, input.ActionApplyStrategy)
	if err := os.WriteFile(path, []byte("first\nl2\nl3\nl4\nl5\nl6"), 0644); err != nil {
		t.Fatal(err)
	}
	a.reloadFile()
	if a.doc.Text() != "first\nl2\nl3\nl4\nl5\nl6" || a.doc.IsModified() {
		t.Fatalf("after reload: %q modified=%v", a.doc.Text(), a.doc.IsModified())
	}
	if got := fmt.Sprint(hiddenLines(a, 0)); got != "[4 5 6]" {
		t.Errorf("hidden lines after reload = %s", got)
	}
	if s := a.hidings.AllHidings()[0]; s.StartOffset() != 12 {
		t.Errorf("section start = %d, want 12", s.StartOffset())
	}

	do(a, input.ActionDeleteLine)
	if err := os.WriteFile(path, []byte("other"), 0644); err != nil {
		t.Fatal(err)
	}
	a.reloadFile()
	if !strings.HasPrefix(a.doc.Text(), "l2") {
		t.Errorf("unsaved edits were overwritten: %q", a.doc.Text())
	}
}

func TestStaleRefreshIsDropped(t *testing.T) {
	cfg := testConfig()
	a := newTestApp(t, cfg, writeNumbered(t, 4), nil)
	defer a.shutdown()

	do(a, input.ActionApplyStrategy)
	a.generation = 5
	h, _ := hiding.NewHidingRange(0, 2, false)
	a.applyRefresh(refreshResult{generation: 4, candidates: []hiding.NewHiding{h}, firstError: -1})
	if a.hidings.Len() != 0 {
		t.Errorf("stale result applied: %v", a.hidings.AllHidings())
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	a, err := NewApp(testConfig(), writeNumbered(t, 3), Options{Screen: screen, ThemesDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- a.Run() }()
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after q")
	}
	if !a.views[0].IsClosed() {
		t.Error("shutdown left the view open")
	}
}
