package interval

// node stores a segment's offsets relative to the pending shifts of its
// ancestors: the real value is the stored value plus the lazy tags of every
// proper ancestor.
type node struct {
	item Entity
	tree *tree

	start, end int
	maxEnd     int // largest end in this subtree, same frame as start/end
	lazy       int // shift not yet pushed to the children

	prio                uint64
	left, right, parent *node
}

type tree struct {
	root  *node
	count int
	seed  uint64
}

func (t *tree) nextPriority() uint64 {
	// xorshift64; deterministic so test runs are reproducible.
	if t.seed == 0 {
		t.seed = 0x9e3779b97f4a7c15
	}
	t.seed ^= t.seed << 13
	t.seed ^= t.seed >> 7
	t.seed ^= t.seed << 17
	return t.seed
}

// shift moves a whole subtree by d.
func (n *node) shift(d int) {
	n.start += d
	n.end += d
	n.maxEnd += d
	n.lazy += d
}

// push hands the pending shift down to the children.
func (n *node) push() {
	if n.lazy == 0 {
		return
	}
	if n.left != nil {
		n.left.shift(n.lazy)
	}
	if n.right != nil {
		n.right.shift(n.lazy)
	}
	n.lazy = 0
}

// pull recomputes the cached subtree maximum.
func (n *node) pull() {
	m := n.end
	if n.left != nil && n.left.maxEnd+n.lazy > m {
		m = n.left.maxEnd + n.lazy
	}
	if n.right != nil && n.right.maxEnd+n.lazy > m {
		m = n.right.maxEnd + n.lazy
	}
	n.maxEnd = m
}

func (n *node) setLeft(c *node) {
	n.left = c
	if c != nil {
		c.parent = n
	}
}

func (n *node) setRight(c *node) {
	n.right = c
	if c != nil {
		c.parent = n
	}
}

// pendingShift is the sum of the lazy tags above n.
func (n *node) pendingShift() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d += p.lazy
	}
	return d
}

// pushPath makes the stored values of n and its ancestors exact.
func (n *node) pushPath() {
	var path []*node
	for p := n.parent; p != nil; p = p.parent {
		path = append(path, p)
	}
	for i := len(path) - 1; i >= 0; i-- {
		path[i].push()
	}
}

func detach(n *node) *node {
	if n != nil {
		n.parent = nil
	}
	return n
}

// split divides a subtree into nodes starting before s and the rest.
// With inclusive set, nodes starting exactly at s go to the left part.
func split(n *node, s int, inclusive bool) (*node, *node) {
	if n == nil {
		return nil, nil
	}
	n.push()
	if n.start < s || (inclusive && n.start == s) {
		l, r := split(n.right, s, inclusive)
		n.setRight(l)
		n.pull()
		return n, detach(r)
	}
	l, r := split(n.left, s, inclusive)
	n.setLeft(r)
	n.pull()
	return detach(l), n
}

// merge joins two subtrees where every node of a precedes every node of b.
func merge(a, b *node) *node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.prio > b.prio {
		a.push()
		a.setRight(merge(a.right, b))
		a.pull()
		return a
	}
	b.push()
	b.setLeft(merge(a, b.left))
	b.pull()
	return b
}

func (t *tree) insert(n *node) {
	n.tree = t
	n.prio = t.nextPriority()
	n.maxEnd = n.end
	l, r := split(t.root, n.start, true)
	t.root = detach(merge(merge(l, n), r))
	t.count++
}

// unlink takes n out of the tree and returns its exact offsets.
func (t *tree) unlink(n *node) (start, end int) {
	n.pushPath()
	n.push()
	start, end = n.start, n.end

	sub := merge(detach(n.left), detach(n.right))
	p := n.parent
	switch {
	case p == nil:
		t.root = detach(sub)
	case p.left == n:
		p.setLeft(sub)
	default:
		p.setRight(sub)
	}
	for x := p; x != nil; x = x.parent {
		x.pull()
	}

	n.left, n.right, n.parent, n.tree = nil, nil, nil, nil
	t.count--
	return start, end
}

// setEnd changes the end offset in place; order depends on start only.
func (t *tree) setEnd(n *node, end int) {
	n.pushPath()
	n.push()
	n.end = end
	for x := n; x != nil; x = x.parent {
		x.pull()
	}
}

func transform(x, offset, cut, delta int) int {
	switch {
	case x < offset:
		return x
	case x < cut:
		return offset
	default:
		return x + delta
	}
}

func (t *tree) applyEdit(offset, removed, inserted int) {
	if t.root == nil {
		return
	}
	cut := offset + removed
	delta := inserted - removed

	l, r := split(t.root, cut, false)
	if r != nil && delta != 0 {
		r.shift(delta)
	}
	adjustTouched(l, offset, cut, delta)
	t.root = detach(merge(l, r))
}

// adjustTouched rewrites the nodes of a subtree (all starting before cut)
// whose end reaches the edit offset.
func adjustTouched(n *node, offset, cut, delta int) {
	if n == nil || n.maxEnd < offset {
		return
	}
	n.push()
	adjustTouched(n.left, offset, cut, delta)
	if n.end >= offset {
		n.start = transform(n.start, offset, cut, delta)
		n.end = transform(n.end, offset, cut, delta)
	}
	adjustTouched(n.right, offset, cut, delta)
	n.pull()
}

// firstAtOrAfter returns the first node in order whose start is >= offset.
func (t *tree) firstAtOrAfter(offset int) *node {
	var best *node
	n, acc := t.root, 0
	for n != nil {
		next := acc + n.lazy
		if n.start+acc >= offset {
			best = n
			n = n.left
		} else {
			n = n.right
		}
		acc = next
	}
	return best
}

func leftmost(n *node) *node {
	for n != nil && n.left != nil {
		n = n.left
	}
	return n
}

func rightmost(n *node) *node {
	for n != nil && n.right != nil {
		n = n.right
	}
	return n
}

func successor(n *node) *node {
	if n.right != nil {
		return leftmost(n.right)
	}
	for p := n.parent; p != nil; n, p = p, p.parent {
		if p.left == n {
			return p
		}
	}
	return nil
}

func predecessor(n *node) *node {
	if n.left != nil {
		return rightmost(n.left)
	}
	for p := n.parent; p != nil; n, p = p, p.parent {
		if p.right == n {
			return p
		}
	}
	return nil
}

// collect appends, in order, every node with end >= minEnd and start <= maxStart.
func collect(n *node, acc, minEnd, maxStart int, out []*node) []*node {
	if n == nil || n.maxEnd+acc < minEnd {
		return out
	}
	childAcc := acc + n.lazy
	out = collect(n.left, childAcc, minEnd, maxStart, out)
	if n.start+acc > maxStart {
		return out
	}
	if n.end+acc >= minEnd {
		out = append(out, n)
	}
	return collect(n.right, childAcc, minEnd, maxStart, out)
}

// walk visits every node in order with its exact offsets.
func walk(n *node, acc int, fn func(n *node, start, end int)) {
	if n == nil {
		return
	}
	childAcc := acc + n.lazy
	walk(n.left, childAcc, fn)
	fn(n, n.start+acc, n.end+acc)
	walk(n.right, childAcc, fn)
}
