// internal/buffer/buffer.go
package buffer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/bethropolis/veil/internal/event"
	"github.com/bethropolis/veil/internal/logger"
)

var (
	// ErrOffsetOutOfRange is returned for offsets outside [0, Len()].
	ErrOffsetOutOfRange = errors.New("offset out of range")
	// ErrLineOutOfRange is returned for line numbers outside [1, LineCount()].
	ErrLineOutOfRange = errors.New("line number out of range")
)

// Line describes one line of a Document. Lines are numbered from 1.
type Line struct {
	Number      int
	Offset      int // Offset of the first byte
	Length      int // Length without the line break
	TotalLength int // Length including the line break, if any
}

// EndOffset returns the offset just before the line break.
func (l Line) EndOffset() int {
	return l.Offset + l.Length
}

// Document is a byte-addressed text buffer with a line index.
// A Document is not safe for concurrent use.
type Document struct {
	text       []byte
	lineStarts []int // Offset of every line start; lineStarts[0] == 0
	filePath   string
	modified   bool

	events   *event.Manager
	trackers []LineTracker
}

// New creates a document holding text.
func New(text string) *Document {
	d := &Document{text: []byte(text)}
	d.reindex()
	return d
}

// SetEventManager makes the document dispatch buffer events through em.
func (d *Document) SetEventManager(em *event.Manager) {
	d.events = em
}

// Load reads a file into the document, replacing its content.
// A missing file yields an empty document bound to filePath.
func (d *Document) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read file '%s': %w", filePath, err)
		}
		data = nil
	}
	if _, err := d.Replace(0, d.Len(), string(data)); err != nil {
		return err
	}
	d.filePath = filePath
	d.modified = false
	logger.DebugTagf("buffer", "Loaded %s (%d bytes, %d lines)", filePath, d.Len(), d.LineCount())
	if d.events != nil {
		d.events.Dispatch(event.TypeBufferLoaded, event.BufferLoadedData{FilePath: filePath})
	}
	return nil
}

// Reload re-reads the document's file and applies the difference as a single
// replacement of the changed middle part, so tracked ranges outside it keep
// their place. It reports whether the text changed.
func (d *Document) Reload() (bool, error) {
	if d.filePath == "" {
		return false, errors.New("document has no file")
	}
	data, err := os.ReadFile(d.filePath)
	if err != nil {
		return false, fmt.Errorf("failed to read file '%s': %w", d.filePath, err)
	}
	if bytes.Equal(data, d.text) {
		return false, nil
	}

	prefix := 0
	for prefix < len(data) && prefix < len(d.text) && data[prefix] == d.text[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(data)-prefix && suffix < len(d.text)-prefix &&
		data[len(data)-1-suffix] == d.text[len(d.text)-1-suffix] {
		suffix++
	}
	if _, err := d.Replace(prefix, len(d.text)-prefix-suffix, string(data[prefix:len(data)-suffix])); err != nil {
		return false, err
	}
	d.modified = false
	logger.DebugTagf("buffer", "Reloaded %s (%d bytes changed at %d)", d.filePath, len(data)-prefix-suffix, prefix)
	return true, nil
}

// Save writes the document to filePath, or to the path it was loaded from
// when filePath is empty.
func (d *Document) Save(filePath string) error {
	path := d.filePath
	if filePath != "" {
		path = filePath
	}
	if path == "" {
		return errors.New("no file path specified for saving")
	}
	if err := os.WriteFile(path, d.text, 0644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}
	d.filePath = path
	d.modified = false
	if d.events != nil {
		d.events.Dispatch(event.TypeBufferSaved, event.BufferSavedData{FilePath: path})
	}
	return nil
}

// FilePath returns the path the document was loaded from or saved to.
func (d *Document) FilePath() string {
	return d.filePath
}

// IsModified reports whether the document has unsaved changes.
func (d *Document) IsModified() bool {
	return d.modified
}

// Len returns the length of the text in bytes.
func (d *Document) Len() int {
	return len(d.text)
}

// LineCount returns the number of lines. An empty document has one line.
func (d *Document) LineCount() int {
	return len(d.lineStarts)
}

// Text returns the whole text.
func (d *Document) Text() string {
	return string(d.text)
}

// Bytes returns a copy of the text.
func (d *Document) Bytes() []byte {
	out := make([]byte, len(d.text))
	copy(out, d.text)
	return out
}

// Slice returns the text in [start, end).
func (d *Document) Slice(start, end int) (string, error) {
	if start < 0 || end > len(d.text) || start > end {
		return "", fmt.Errorf("%w: [%d, %d) in document of length %d", ErrOffsetOutOfRange, start, end, len(d.text))
	}
	return string(d.text[start:end]), nil
}

// LineByNumber returns line n (1-based).
func (d *Document) LineByNumber(n int) (Line, error) {
	if n < 1 || n > len(d.lineStarts) {
		return Line{}, fmt.Errorf("%w: %d of %d", ErrLineOutOfRange, n, len(d.lineStarts))
	}
	return d.line(n), nil
}

// LineByOffset returns the line containing offset. The offset of a line break
// belongs to the line it terminates; Len() belongs to the last line.
func (d *Document) LineByOffset(offset int) (Line, error) {
	if offset < 0 || offset > len(d.text) {
		return Line{}, fmt.Errorf("%w: %d in document of length %d", ErrOffsetOutOfRange, offset, len(d.text))
	}
	return d.line(d.lineIndex(offset) + 1), nil
}

// lineIndex returns the 0-based index of the line holding offset.
func (d *Document) lineIndex(offset int) int {
	return sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	}) - 1
}

func (d *Document) line(n int) Line {
	start := d.lineStarts[n-1]
	next := len(d.text)
	if n < len(d.lineStarts) {
		next = d.lineStarts[n]
	}
	length := next - start
	if n < len(d.lineStarts) {
		length-- // '\n'
	}
	return Line{Number: n, Offset: start, Length: length, TotalLength: next - start}
}

func (d *Document) reindex() {
	d.lineStarts = d.lineStarts[:0]
	d.lineStarts = append(d.lineStarts, 0)
	for i, b := range d.text {
		if b == '\n' {
			d.lineStarts = append(d.lineStarts, i+1)
		}
	}
}
