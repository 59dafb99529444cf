// Package view holds the per-view state shared by the viewer and the
// features that decorate it: the line-height tree, element generators,
// services and redraw requests.
package view

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/bethropolis/veil/internal/buffer"
	"github.com/bethropolis/veil/internal/heighttree"
	"github.com/bethropolis/veil/internal/logger"
)

// ErrClosed is returned when modifying a closed view.
var ErrClosed = errors.New("view is closed")

// ID identifies a view for as long as the process runs.
type ID uint64

var lastID atomic.Uint64

// Generator takes part in building the visual lines of a view.
type Generator interface {
	// StartGeneration is called before a view renders its text.
	StartGeneration(v *View, doc *buffer.Document) error
	// FirstInterestedOffset returns the first offset at or after offset the
	// generator wants to handle, or -1.
	FirstInterestedOffset(offset int) int
}

// Connector is implemented by generators that need to know which views
// they are part of.
type Connector interface {
	AddedTo(v *View) error
	RemovedFrom(v *View)
}

// RedrawFunc receives the offset range [start, end) that needs repainting.
type RedrawFunc func(start, end int)

// View is one window onto a document.
type View struct {
	id         ID
	doc        *buffer.Document
	heights    *heighttree.Tree
	generators []Generator
	services   map[string]interface{}

	topLine     int
	onRedraw    RedrawFunc
	redrawCount int
	closed      bool
}

// New creates a view of doc whose lines are lineHeight rows tall.
func New(doc *buffer.Document, lineHeight int) *View {
	v := &View{
		id:       ID(lastID.Add(1)),
		doc:      doc,
		heights:  heighttree.New(doc.LineCount(), lineHeight),
		services: make(map[string]interface{}),
		topLine:  1,
	}
	doc.AddLineTracker(v.heights)
	return v
}

// ID returns the stable identifier of the view.
func (v *View) ID() ID { return v.id }

// Document returns the viewed document.
func (v *View) Document() *buffer.Document { return v.doc }

// HeightTree returns the view's line-height tree.
func (v *View) HeightTree() *heighttree.Tree { return v.heights }

// IsClosed reports whether Close was called.
func (v *View) IsClosed() bool { return v.closed }

// Generators returns the element generators in priority order.
func (v *View) Generators() []Generator {
	out := make([]Generator, len(v.generators))
	copy(out, v.generators)
	return out
}

// InsertGenerator adds g at position i (clamped to the list).
func (v *View) InsertGenerator(i int, g Generator) error {
	if v.closed {
		return ErrClosed
	}
	if i < 0 {
		i = 0
	}
	if i > len(v.generators) {
		i = len(v.generators)
	}
	if c, ok := g.(Connector); ok {
		if err := c.AddedTo(v); err != nil {
			return fmt.Errorf("adding generator to view %d: %w", v.id, err)
		}
	}
	v.generators = append(v.generators, nil)
	copy(v.generators[i+1:], v.generators[i:])
	v.generators[i] = g
	v.Redraw()
	return nil
}

// AddGenerator appends g.
func (v *View) AddGenerator(g Generator) error {
	return v.InsertGenerator(len(v.generators), g)
}

// RemoveGenerator takes g out of the view. It reports whether g was present.
func (v *View) RemoveGenerator(g Generator) bool {
	for i, existing := range v.generators {
		if existing != g {
			continue
		}
		v.generators = append(v.generators[:i:i], v.generators[i+1:]...)
		if c, ok := g.(Connector); ok {
			c.RemovedFrom(v)
		}
		v.Redraw()
		return true
	}
	return false
}

// FirstInterestedOffset returns the lowest offset any generator wants to
// handle at or after offset, or -1.
func (v *View) FirstInterestedOffset(offset int) int {
	best := -1
	for _, g := range v.generators {
		if o := g.FirstInterestedOffset(offset); o >= 0 && (best < 0 || o < best) {
			best = o
		}
	}
	return best
}

// StartGeneration prepares every generator for a render pass.
func (v *View) StartGeneration() error {
	for _, g := range v.generators {
		if err := g.StartGeneration(v, v.doc); err != nil {
			return err
		}
	}
	return nil
}

// AddService registers a feature object under name.
func (v *View) AddService(name string, svc interface{}) error {
	if _, exists := v.services[name]; exists {
		return fmt.Errorf("service %q already registered on view %d", name, v.id)
	}
	v.services[name] = svc
	return nil
}

// Service looks up a registered service.
func (v *View) Service(name string) (interface{}, bool) {
	svc, ok := v.services[name]
	return svc, ok
}

// RemoveService unregisters name.
func (v *View) RemoveService(name string) {
	delete(v.services, name)
}

// SetRedrawFunc sets the callback run for redraw requests.
func (v *View) SetRedrawFunc(fn RedrawFunc) {
	v.onRedraw = fn
}

// Redraw requests a repaint of the whole view.
func (v *View) Redraw() {
	v.RedrawRange(0, v.doc.Len())
}

// RedrawRange requests a repaint of the text in [start, end).
func (v *View) RedrawRange(start, end int) {
	if v.closed {
		return
	}
	v.redrawCount++
	if v.onRedraw != nil {
		v.onRedraw(start, end)
	}
}

// RedrawCount returns how many redraws were requested so far.
func (v *View) RedrawCount() int {
	return v.redrawCount
}

// TopLine returns the first line shown by the view.
func (v *View) TopLine() int {
	if next, ok := v.heights.NextVisibleLine(v.topLine); ok {
		return next
	}
	if prev, ok := v.heights.PrevVisibleLine(v.topLine); ok {
		return prev
	}
	return 1
}

// ScrollTo makes line the top line, clamped to the document.
func (v *View) ScrollTo(line int) {
	if line < 1 {
		line = 1
	}
	if last := v.doc.LineCount(); line > last {
		line = last
	}
	v.topLine = line
}

// Scroll moves the top line by delta visible lines.
func (v *View) Scroll(delta int) {
	line := v.TopLine()
	for ; delta > 0; delta-- {
		next, ok := v.heights.NextVisibleLine(line + 1)
		if !ok {
			break
		}
		line = next
	}
	for ; delta < 0; delta++ {
		prev, ok := v.heights.PrevVisibleLine(line - 1)
		if !ok {
			break
		}
		line = prev
	}
	v.topLine = line
}

// VisibleLines returns up to limit visible line numbers starting at the top line.
func (v *View) VisibleLines(limit int) []int {
	var lines []int
	line, ok := v.heights.NextVisibleLine(v.TopLine())
	for ok && len(lines) < limit {
		lines = append(lines, line)
		line, ok = v.heights.NextVisibleLine(line + 1)
	}
	return lines
}

// Close detaches every generator, stops tracking the document and disposes
// the height tree.
func (v *View) Close() {
	if v.closed {
		return
	}
	for len(v.generators) > 0 {
		v.RemoveGenerator(v.generators[len(v.generators)-1])
	}
	v.doc.RemoveLineTracker(v.heights)
	v.heights.Dispose()
	v.closed = true
	logger.Debugf("view %d closed", v.id)
}
