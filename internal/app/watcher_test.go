package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWatcherNotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.txt")
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 4)
	w, err := NewFileWatcher(path, 10*time.Millisecond, func() { changed <- struct{}{} })
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	defer w.Close()

	// Other files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("b"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
		t.Fatal("notified for another file")
	case <-time.After(100 * time.Millisecond):
	}

	if err := os.WriteFile(path, []byte("ab"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no notification after writing the file")
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
