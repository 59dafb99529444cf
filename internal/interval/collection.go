package interval

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned for ranges with start > end or a negative start.
	ErrInvalidRange = errors.New("invalid range")

	// ErrAttached is returned when adding a segment that already belongs to a collection.
	ErrAttached = errors.New("segment already belongs to a collection")

	// ErrForeign is returned when moving a segment stored in another collection.
	ErrForeign = errors.New("segment belongs to another collection")
)

// Segment is the offset range of a tracked value. Embed it to make a type
// storable in a [Collection]. The zero value is the empty range at offset 0.
// Only the collection moves a segment, see [Collection.SetRange].
type Segment struct {
	n          *node
	start, end int // only meaningful while detached
}

// Entity is implemented by every type that embeds a Segment.
type Entity interface {
	segment() *Segment
}

func (s *Segment) segment() *Segment { return s }

// StartOffset returns the current start offset.
func (s *Segment) StartOffset() int {
	if s.n == nil {
		return s.start
	}
	return s.n.start + s.n.pendingShift()
}

// EndOffset returns the current end offset (exclusive).
func (s *Segment) EndOffset() int {
	if s.n == nil {
		return s.end
	}
	return s.n.end + s.n.pendingShift()
}

// Length returns EndOffset - StartOffset.
func (s *Segment) Length() int {
	if s.n == nil {
		return s.end - s.start
	}
	return s.n.end - s.n.start
}

// IsConnected reports whether the segment is stored in a collection.
func (s *Segment) IsConnected() bool {
	return s.n != nil
}

func (s *Segment) String() string {
	return fmt.Sprintf("[%d, %d)", s.StartOffset(), s.EndOffset())
}

// Collection is an ordered set of segments that follows buffer edits.
type Collection[T Entity] struct {
	t tree
}

// New creates an empty collection.
func New[T Entity]() *Collection[T] {
	return &Collection[T]{}
}

// Len returns the number of segments.
func (c *Collection[T]) Len() int {
	return c.t.count
}

// Add inserts item at the range currently stored in its segment. Items with
// equal start offsets keep insertion order.
func (c *Collection[T]) Add(item T) error {
	s := item.segment()
	if s.n != nil {
		return ErrAttached
	}
	if s.start < 0 || s.start > s.end {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, s.start, s.end)
	}
	s.n = &node{item: item, start: s.start, end: s.end}
	c.t.insert(s.n)
	return nil
}

// SetRange moves item to [start, end). A stored item is repositioned keeping
// the collection ordered; a detached item only takes the range, which Add
// will use.
func (c *Collection[T]) SetRange(item T, start, end int) error {
	if start < 0 || start > end {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, start, end)
	}
	s := item.segment()
	if s.n == nil {
		s.start, s.end = start, end
		return nil
	}
	if s.n.tree != &c.t {
		return ErrForeign
	}
	if s.StartOffset() == start {
		c.t.setEnd(s.n, end)
		return nil
	}
	c.t.unlink(s.n)
	s.start, s.end = start, end
	s.n = &node{item: item, start: start, end: end}
	c.t.insert(s.n)
	return nil
}

// SetEndOffset changes only the end offset of item.
func (c *Collection[T]) SetEndOffset(item T, end int) error {
	return c.SetRange(item, item.segment().StartOffset(), end)
}

// Contains reports whether item is stored in this collection.
func (c *Collection[T]) Contains(item T) bool {
	s := item.segment()
	return s.n != nil && s.n.tree == &c.t
}

// Remove takes item out of the collection. The segment keeps its last offsets.
func (c *Collection[T]) Remove(item T) bool {
	if !c.Contains(item) {
		return false
	}
	s := item.segment()
	s.start, s.end = c.t.unlink(s.n)
	s.n = nil
	return true
}

// Clear removes every segment.
func (c *Collection[T]) Clear() {
	walk(c.t.root, 0, func(n *node, start, end int) {
		s := n.item.segment()
		s.start, s.end = start, end
		s.n = nil
		n.tree = nil
	})
	c.t.root = nil
	c.t.count = 0
}

// ApplyEdit updates every segment for a text change at offset that removed
// removedLength bytes and inserted insertedLength bytes.
func (c *Collection[T]) ApplyEdit(offset, removedLength, insertedLength int) {
	c.t.applyEdit(offset, removedLength, insertedLength)
}

// FindOverlapping returns, in order, the segments with
// start <= offset+length and end >= offset.
func (c *Collection[T]) FindOverlapping(offset, length int) []T {
	return c.items(collect(c.t.root, 0, offset, offset+length, nil))
}

// FindContaining returns, in order, the segments with start <= offset < end.
func (c *Collection[T]) FindContaining(offset int) []T {
	return c.items(collect(c.t.root, 0, offset+1, offset, nil))
}

// FindFirstStartingAfter returns the first segment whose start is >= offset.
func (c *Collection[T]) FindFirstStartingAfter(offset int) (T, bool) {
	return c.item(c.t.firstAtOrAfter(offset))
}

// First returns the segment with the lowest start offset.
func (c *Collection[T]) First() (T, bool) {
	return c.item(leftmost(c.t.root))
}

// Last returns the segment with the highest start offset.
func (c *Collection[T]) Last() (T, bool) {
	return c.item(rightmost(c.t.root))
}

// Next returns the segment following item in start order.
func (c *Collection[T]) Next(item T) (T, bool) {
	if !c.Contains(item) {
		var zero T
		return zero, false
	}
	return c.item(successor(item.segment().n))
}

// Prev returns the segment preceding item in start order.
func (c *Collection[T]) Prev(item T) (T, bool) {
	if !c.Contains(item) {
		var zero T
		return zero, false
	}
	return c.item(predecessor(item.segment().n))
}

// All returns every segment ordered by start offset.
func (c *Collection[T]) All() []T {
	out := make([]T, 0, c.t.count)
	walk(c.t.root, 0, func(n *node, _, _ int) {
		out = append(out, n.item.(T))
	})
	return out
}

func (c *Collection[T]) item(n *node) (T, bool) {
	if n == nil {
		var zero T
		return zero, false
	}
	return n.item.(T), true
}

func (c *Collection[T]) items(nodes []*node) []T {
	out := make([]T, len(nodes))
	for i, n := range nodes {
		out[i] = n.item.(T)
	}
	return out
}
