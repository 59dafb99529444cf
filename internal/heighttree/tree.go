// Package heighttree tracks which lines of a view are collapsed to zero height.
//
// Lines are numbered from 1. Collapses are inclusive line ranges of a given
// Kind; collapses of different kinds may overlap freely and a line is hidden
// while any collapse covers it. Collapses follow line insertions and removals
// reported through LinesChanged.
package heighttree

import (
	"github.com/bethropolis/veil/internal/buffer"
	"github.com/bethropolis/veil/internal/interval"
	"github.com/bethropolis/veil/internal/logger"
)

// Kind tells collapses created by different features apart.
type Kind int

const (
	Folding Kind = iota
	Hiding
)

func (k Kind) String() string {
	switch k {
	case Folding:
		return "folding"
	case Hiding:
		return "hiding"
	}
	return "unknown"
}

// Tree is the line-height structure of one view.
type Tree struct {
	lineCount  int
	lineHeight int
	// Collapse ranges in line space, stored half-open: lines [a, b] become [a, b+1).
	collapses *interval.Collection[*Collapse]
	disposed  bool
}

// New creates a tree for lineCount lines of lineHeight rows each.
func New(lineCount, lineHeight int) *Tree {
	if lineCount < 1 {
		lineCount = 1
	}
	if lineHeight < 1 {
		lineHeight = 1
	}
	return &Tree{
		lineCount:  lineCount,
		lineHeight: lineHeight,
		collapses:  interval.New[*Collapse](),
	}
}

// LineCount returns the number of lines the tree covers.
func (t *Tree) LineCount() int {
	return t.lineCount
}

// IsDisposed reports whether Dispose was called.
func (t *Tree) IsDisposed() bool {
	return t.disposed
}

// CollapseLines collapses lines start through end. The range is clamped to
// the tree; an empty range or a disposed tree yields a handle that is not
// collapsed.
func (t *Tree) CollapseLines(start, end int, kind Kind) *Collapse {
	c := &Collapse{kind: kind}
	if t.disposed {
		return c
	}
	if start < 1 {
		start = 1
	}
	if end > t.lineCount {
		end = t.lineCount
	}
	if start > end {
		return c
	}
	if err := t.collapses.SetRange(c, start, end+1); err != nil {
		logger.Warnf("heighttree: collapse %d-%d rejected: %v", start, end, err)
		return c
	}
	if err := t.collapses.Add(c); err != nil {
		logger.Warnf("heighttree: collapse %d-%d rejected: %v", start, end, err)
		return c
	}
	c.tree = t
	logger.DebugTagf("heighttree", "Collapsed lines %d-%d (%v)", start, end, kind)
	return c
}

// IsLineCollapsed reports whether any collapse covers line n.
func (t *Tree) IsLineCollapsed(n int) bool {
	return len(t.collapses.FindContaining(n)) > 0
}

// CollapsesAt returns the collapses covering line n, ordered by first line.
func (t *Tree) CollapsesAt(n int) []*Collapse {
	return t.collapses.FindContaining(n)
}

// LineHeight returns the rendered height of line n: zero while collapsed.
func (t *Tree) LineHeight(n int) int {
	if n < 1 || n > t.lineCount || t.IsLineCollapsed(n) {
		return 0
	}
	return t.lineHeight
}

// VisibleLineCount returns the number of lines not covered by any collapse.
func (t *Tree) VisibleLineCount() int {
	hidden := 0
	covered := 0 // last line counted as hidden
	for _, c := range t.collapses.All() {
		first, last, _ := c.Lines()
		if first <= covered {
			first = covered + 1
		}
		if last > covered {
			hidden += last - first + 1
			covered = last
		}
	}
	return t.lineCount - hidden
}

// TotalHeight returns the summed height of all lines.
func (t *Tree) TotalHeight() int {
	return t.VisibleLineCount() * t.lineHeight
}

// NextVisibleLine returns the first visible line at or after n.
func (t *Tree) NextVisibleLine(n int) (int, bool) {
	if n < 1 {
		n = 1
	}
	for n <= t.lineCount {
		cs := t.collapses.FindContaining(n)
		if len(cs) == 0 {
			return n, true
		}
		for _, c := range cs {
			if end := c.EndOffset(); end > n {
				n = end
			}
		}
	}
	return 0, false
}

// PrevVisibleLine returns the last visible line at or before n.
func (t *Tree) PrevVisibleLine(n int) (int, bool) {
	if n > t.lineCount {
		n = t.lineCount
	}
	for n >= 1 {
		cs := t.collapses.FindContaining(n)
		if len(cs) == 0 {
			return n, true
		}
		for _, c := range cs {
			if start := c.StartOffset() - 1; start < n {
				n = start
			}
		}
	}
	return 0, false
}

// LinesChanged moves collapses along with a line-level buffer change.
// Collapses whose lines were all removed are released.
func (t *Tree) LinesChanged(change buffer.LineChange) {
	if t.disposed {
		return
	}
	t.lineCount += change.Inserted - change.Removed
	if t.lineCount < 1 {
		t.lineCount = 1
	}
	if change.Removed == 0 && change.Inserted == 0 {
		return
	}

	// Lines after change.Line are the ones whose breaks were removed or inserted.
	at := change.Line + 1

	// Lines split off the end of a collapse's last line stay visible.
	var endingAt []*Collapse
	if change.Removed == 0 {
		for _, c := range t.collapses.FindOverlapping(at, 0) {
			if c.EndOffset() == at {
				endingAt = append(endingAt, c)
			}
		}
	}

	t.collapses.ApplyEdit(at, change.Removed, change.Inserted)
	for _, c := range endingAt {
		t.collapses.SetEndOffset(c, at)
	}
	for _, c := range t.collapses.FindOverlapping(at, 0) {
		if c.Length() == 0 {
			logger.DebugTagf("heighttree", "Dropping %v collapse emptied by line change %+v", c.kind, change)
			c.Uncollapse()
		}
	}
}

// Dispose releases every collapse. Later calls on the tree are no-ops.
func (t *Tree) Dispose() {
	if t.disposed {
		return
	}
	for _, c := range t.collapses.All() {
		c.tree = nil
	}
	t.collapses.Clear()
	t.disposed = true
}

// Collapse is the handle of one collapsed line range.
type Collapse struct {
	interval.Segment
	tree *Tree
	kind Kind
}

// Kind returns the feature that created the collapse.
func (c *Collapse) Kind() Kind {
	return c.kind
}

// IsCollapsed reports whether the handle still hides lines.
func (c *Collapse) IsCollapsed() bool {
	return c.tree != nil && c.IsConnected()
}

// Lines returns the first and last collapsed line.
func (c *Collapse) Lines() (start, end int, ok bool) {
	if !c.IsCollapsed() {
		return 0, 0, false
	}
	return c.StartOffset(), c.EndOffset() - 1, true
}

// Uncollapse restores the lines. Calling it again, or after the tree was
// disposed, only clears the handle.
func (c *Collapse) Uncollapse() {
	if c.tree == nil {
		return
	}
	if !c.tree.disposed {
		c.tree.collapses.Remove(c)
		logger.DebugTagf("heighttree", "Uncollapsed lines %d-%d (%v)", c.StartOffset(), c.EndOffset()-1, c.kind)
	}
	c.tree = nil
}
