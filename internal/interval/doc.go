// Package interval keeps a set of offset ranges over a text buffer ordered by
// start offset and rewrites them when the text is edited.
//
// Values are tracked by embedding a [Segment]:
//
//	type Marker struct {
//	    interval.Segment
//	    Name string
//	}
//
//	c := interval.New[*Marker]()
//	m := &Marker{Name: "todo"}
//	c.SetRange(m, 10, 20)
//	c.Add(m)
//	c.ApplyEdit(0, 0, 5) // five bytes inserted at the start
//	m.StartOffset()      // 15
//
// # Edits
//
// [Collection.ApplyEdit] maps every tracked offset x through the same rule:
// offsets before the edit are unchanged, offsets inside the removed text move
// to the edit offset, offsets at or after the end of the removed text shift by
// insertedLength-removedLength. Because the rule is monotone the order of the
// collection never changes during an edit. A segment may become empty; the
// collection never removes segments on its own.
//
// # Queries
//
// [Collection.FindOverlapping] treats both ends as closed, so a segment that
// only touches the queried range (or that was collapsed to a single point) is
// reported. [Collection.FindContaining] is half-open: start <= offset < end.
//
// # Complexity
//
// The collection is a treap ordered by start offset. Pending shifts are kept
// as lazy tags and every node caches the maximum end offset of its subtree,
// so edits and queries cost O(log n + k) for k affected segments.
//
// A Collection is not safe for concurrent use.
package interval
