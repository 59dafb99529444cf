package statusbar

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func row(t *testing.T, s tcell.SimulationScreen, y int) string {
	t.Helper()
	cells, width, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < width; x++ {
		b.Write(cells[y*width+x].Bytes)
	}
	return strings.TrimRight(b.String(), " ")
}

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(60, 3)
	t.Cleanup(s.Fini)
	return s
}

func TestDrawDefaultLine(t *testing.T) {
	s := newScreen(t)
	sb := New(DefaultConfig())
	sb.SetFileInfo("main.go", true)
	sb.SetHidingInfo("definitions", 4, 3)
	sb.SetViewInfo(2, 2, 17)

	sb.Draw(s, 60, 3)
	s.Show()

	want := "main.go [Modified] -- definitions -- 3/4 hidden -- Line: 17"
	if got := row(t, s, 2); got != want {
		t.Errorf("status = %q, want %q", got, want)
	}
}

func TestTemporaryMessageExpires(t *testing.T) {
	s := newScreen(t)
	sb := New(DefaultConfig())
	clock := time.Unix(1000, 0)
	sb.now = func() time.Time { return clock }

	sb.SetTemporaryMessage("Yanked %d lines", 12)
	sb.Draw(s, 60, 3)
	s.Show()
	if got := row(t, s, 2); got != "Yanked 12 lines" {
		t.Errorf("status = %q", got)
	}

	clock = clock.Add(5 * time.Second)
	sb.Draw(s, 60, 3)
	s.Show()
	if got := row(t, s, 2); !strings.HasPrefix(got, "[No Name] -- 0/0 hidden") {
		t.Errorf("expired message still shown: %q", got)
	}
}

func TestDrawTruncates(t *testing.T) {
	s := newScreen(t)
	sb := New(DefaultConfig())
	sb.SetTemporaryMessage("a message far wider than the bar")
	sb.Draw(s, 9, 3)
	s.Show()
	if got := row(t, s, 2); got != "a message" {
		t.Errorf("status = %q", got)
	}
}
