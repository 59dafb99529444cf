package buffer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/veil/internal/event"
)

func TestLineIndex(t *testing.T) {
	d := New("ab\ncde\n\nf")
	if got := d.LineCount(); got != 4 {
		t.Fatalf("LineCount() = %d, want 4", got)
	}

	tests := []struct {
		offset int
		want   Line
	}{
		{0, Line{Number: 1, Offset: 0, Length: 2, TotalLength: 3}},
		{2, Line{Number: 1, Offset: 0, Length: 2, TotalLength: 3}}, // the line break
		{3, Line{Number: 2, Offset: 3, Length: 3, TotalLength: 4}},
		{7, Line{Number: 3, Offset: 7, Length: 0, TotalLength: 1}},
		{9, Line{Number: 4, Offset: 8, Length: 1, TotalLength: 1}}, // Len()
	}
	for _, tt := range tests {
		got, err := d.LineByOffset(tt.offset)
		if err != nil {
			t.Fatalf("LineByOffset(%d): %v", tt.offset, err)
		}
		if got != tt.want {
			t.Errorf("LineByOffset(%d) = %+v, want %+v", tt.offset, got, tt.want)
		}
	}

	if l, _ := d.LineByNumber(2); l.EndOffset() != 6 {
		t.Errorf("line 2 EndOffset() = %d, want 6", l.EndOffset())
	}
	if _, err := d.LineByNumber(5); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("LineByNumber(5) error = %v", err)
	}
	if _, err := d.LineByOffset(10); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("LineByOffset(10) error = %v", err)
	}
}

func TestEmptyDocument(t *testing.T) {
	d := New("")
	if d.LineCount() != 1 {
		t.Fatalf("empty document has %d lines", d.LineCount())
	}
	l, err := d.LineByOffset(0)
	if err != nil || l.Number != 1 || l.TotalLength != 0 {
		t.Errorf("LineByOffset(0) = %+v, %v", l, err)
	}
}

type recordingTracker struct {
	changes []LineChange
	seenBy  *[]string
}

func (r *recordingTracker) LinesChanged(c LineChange) {
	r.changes = append(r.changes, c)
	*r.seenBy = append(*r.seenBy, "tracker")
}

func TestReplaceNotifiesTrackersBeforeEvents(t *testing.T) {
	var order []string
	em := event.NewManager()
	var got event.BufferModifiedData
	em.Subscribe(event.TypeBufferModified, func(e event.Event) bool {
		got = e.Data.(event.BufferModifiedData)
		order = append(order, "event")
		return false
	})

	d := New("one\ntwo\nthree\n")
	d.SetEventManager(em)
	tr := &recordingTracker{seenBy: &order}
	d.AddLineTracker(tr)
	d.AddLineTracker(tr)

	// Replace "e\ntwo\nth" with "X\nY".
	edit, err := d.Replace(2, 8, "X\nY")
	if err != nil {
		t.Fatal(err)
	}
	if d.Text() != "onX\nYree\n" {
		t.Fatalf("Text() = %q", d.Text())
	}
	if len(order) != 2 || order[0] != "tracker" || order[1] != "event" {
		t.Fatalf("notification order = %v", order)
	}
	if want := (LineChange{Line: 1, Removed: 2, Inserted: 1}); tr.changes[0] != want {
		t.Errorf("LineChange = %+v, want %+v", tr.changes[0], want)
	}
	if got.Edit != edit {
		t.Errorf("event edit %+v differs from returned %+v", got.Edit, edit)
	}
	if off, removed, inserted := edit.Delta(); off != 2 || removed != 8 || inserted != 3 {
		t.Errorf("Delta() = %d, %d, %d", off, removed, inserted)
	}
	if edit.OldEndPosition.Row != 2 || edit.OldEndPosition.Column != 2 {
		t.Errorf("OldEndPosition = %+v", edit.OldEndPosition)
	}
	if edit.NewEndPosition.Row != 1 || edit.NewEndPosition.Column != 1 {
		t.Errorf("NewEndPosition = %+v", edit.NewEndPosition)
	}
	if !d.IsModified() {
		t.Error("document should be modified")
	}

	d.RemoveLineTracker(tr)
	d.Insert(0, "\n")
	if len(tr.changes) != 1 {
		t.Error("removed tracker was notified")
	}
}

func TestReplaceOutOfRange(t *testing.T) {
	d := New("abc")
	if _, err := d.Delete(2, 5); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("Delete(2, 5) error = %v", err)
	}
	if _, err := d.Insert(-1, "x"); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("Insert(-1) error = %v", err)
	}
	if _, err := d.Slice(2, 1); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("Slice(2, 1) error = %v", err)
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("x\ny\n"), 0644); err != nil {
		t.Fatal(err)
	}

	em := event.NewManager()
	loaded := ""
	em.Subscribe(event.TypeBufferLoaded, func(e event.Event) bool {
		loaded = e.Data.(event.BufferLoadedData).FilePath
		return false
	})

	d := New("")
	d.SetEventManager(em)
	if err := d.Load(path); err != nil {
		t.Fatal(err)
	}
	if loaded != path || d.LineCount() != 3 || d.IsModified() {
		t.Fatalf("after Load: loaded=%q lines=%d modified=%v", loaded, d.LineCount(), d.IsModified())
	}

	d.Insert(d.Len(), "z")
	out := filepath.Join(dir, "b.txt")
	if err := d.Save(out); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "x\ny\nz" || d.FilePath() != out || d.IsModified() {
		t.Errorf("after Save: %q path=%q modified=%v", data, d.FilePath(), d.IsModified())
	}

	missing := New("stale")
	if err := missing.Load(filepath.Join(dir, "missing.txt")); err != nil {
		t.Fatal(err)
	}
	if missing.Len() != 0 {
		t.Errorf("missing file should load empty, got %q", missing.Text())
	}
}

func TestReloadReplacesChangedMiddle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0644); err != nil {
		t.Fatal(err)
	}
	d := New("")
	if err := d.Load(path); err != nil {
		t.Fatal(err)
	}

	tracker := &recordingTracker{seenBy: &[]string{}}
	d.AddLineTracker(tracker)
	if err := os.WriteFile(path, []byte("one\n2\nthree\n"), 0644); err != nil {
		t.Fatal(err)
	}
	changed, err := d.Reload()
	if err != nil || !changed {
		t.Fatalf("Reload() = %v, %v", changed, err)
	}
	if d.Text() != "one\n2\nthree\n" || d.IsModified() {
		t.Fatalf("after Reload: %q modified=%v", d.Text(), d.IsModified())
	}
	if got := tracker.changes; len(got) != 1 || got[0] != (LineChange{Line: 2, Removed: 0, Inserted: 0}) {
		t.Errorf("line changes = %+v", got)
	}

	changed, err = d.Reload()
	if err != nil || changed {
		t.Errorf("second Reload() = %v, %v", changed, err)
	}
	if _, err := New("x").Reload(); err == nil {
		t.Error("Reload without a file should fail")
	}
}
