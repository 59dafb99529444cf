// internal/buffer/edit.go
package buffer

import (
	"bytes"
	"fmt"

	"github.com/bethropolis/veil/internal/event"
	"github.com/bethropolis/veil/internal/logger"
	"github.com/bethropolis/veil/internal/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// LineChange describes how an edit moved line boundaries. Line is the
// 1-based line the edit starts on; the removed text spanned Removed line
// breaks and the inserted text holds Inserted line breaks.
type LineChange struct {
	Line     int
	Removed  int
	Inserted int
}

// LineTracker is told about line changes before buffer events are dispatched.
type LineTracker interface {
	LinesChanged(change LineChange)
}

// AddLineTracker registers t. Adding the same tracker twice is a no-op.
func (d *Document) AddLineTracker(t LineTracker) {
	for _, existing := range d.trackers {
		if existing == t {
			return
		}
	}
	d.trackers = append(d.trackers, t)
}

// RemoveLineTracker unregisters t.
func (d *Document) RemoveLineTracker(t LineTracker) {
	for i, existing := range d.trackers {
		if existing == t {
			d.trackers = append(d.trackers[:i:i], d.trackers[i+1:]...)
			return
		}
	}
}

// Insert inserts text at offset.
func (d *Document) Insert(offset int, text string) (types.EditInfo, error) {
	return d.Replace(offset, 0, text)
}

// Delete removes length bytes starting at offset.
func (d *Document) Delete(offset, length int) (types.EditInfo, error) {
	return d.Replace(offset, length, "")
}

// Replace swaps the length bytes at offset for text. Line trackers are
// updated first, then TypeBufferModified is dispatched.
func (d *Document) Replace(offset, length int, text string) (types.EditInfo, error) {
	if offset < 0 || length < 0 || offset+length > len(d.text) {
		return types.EditInfo{}, fmt.Errorf("%w: replace [%d, %d) in document of length %d",
			ErrOffsetOutOfRange, offset, offset+length, len(d.text))
	}
	if length == 0 && text == "" {
		return types.EditInfo{}, nil
	}

	startPoint := d.point(offset)
	oldEndPoint := d.point(offset + length)
	removedBreaks := bytes.Count(d.text[offset:offset+length], []byte{'\n'})

	newText := make([]byte, 0, len(d.text)-length+len(text))
	newText = append(newText, d.text[:offset]...)
	newText = append(newText, text...)
	newText = append(newText, d.text[offset+length:]...)
	d.text = newText
	d.reindex()
	d.modified = true

	edit := types.EditInfo{
		StartIndex:     uint32(offset),
		OldEndIndex:    uint32(offset + length),
		NewEndIndex:    uint32(offset + len(text)),
		StartPosition:  startPoint,
		OldEndPosition: oldEndPoint,
		NewEndPosition: d.point(offset + len(text)),
	}
	change := LineChange{
		Line:     int(startPoint.Row) + 1,
		Removed:  removedBreaks,
		Inserted: int(edit.NewEndPosition.Row - startPoint.Row),
	}
	logger.DebugTagf("buffer", "Replace at %d: -%d +%d bytes, lines %+v", offset, length, len(text), change)

	for _, t := range d.trackers {
		t.LinesChanged(change)
	}
	if d.events != nil {
		d.events.Dispatch(event.TypeBufferModified, event.BufferModifiedData{Source: d, Edit: edit})
	}
	return edit, nil
}

// point converts an offset of the current text into a (row, byte column) pair.
func (d *Document) point(offset int) sitter.Point {
	i := d.lineIndex(offset)
	return sitter.Point{Row: uint32(i), Column: uint32(offset - d.lineStarts[i])}
}
