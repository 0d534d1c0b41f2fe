package diag

import (
	"strings"
	"sync"
)

// Stats is one node's diagnostic counters: how many times the cell at this
// path has been claimed, stolen from, released on completion, or cancelled.
type Stats struct {
	Claims    uint64
	Steals    uint64
	Completes uint64
	Cancels   uint64
}

type node struct {
	lock  *NodeLock
	stats Stats

	// childMu guards reads and writes of children. NodeLock's IS/IX holds
	// are deliberately non-exclusive with respect to each other (that's the
	// whole point of an intention lock: many goroutines may descend through
	// the same ancestor concurrently), so it cannot also serialize the
	// one-time creation of a missing child — two goroutines both holding IX
	// on the same parent is exactly the case that would otherwise race on
	// this map.
	childMu  sync.Mutex
	children map[string]*node
}

func newNode() *node {
	return &node{lock: newNodeLock(), children: map[string]*node{}}
}

// childOrCreate returns the existing child named seg, creating it if this
// is the first descent through it. Safe for concurrent use regardless of
// which NodeLock mode the caller holds on n.
func (n *node) childOrCreate(seg string) *node {
	n.childMu.Lock()
	defer n.childMu.Unlock()
	child, ok := n.children[seg]
	if !ok {
		child = newNode()
		n.children[seg] = child
	}
	return child
}

// ResourceTree organizes per-cell diagnostic counters hierarchically, keyed
// by a dot-separated path such as "arm.shoulder.motor". It lets a single
// writer goroutine (internal/sched's loop) record events for one cell while
// a reader goroutine (cmd/armctl's metrics HTTP handler) takes a consistent
// snapshot of a different subtree, without either blocking on a
// whole-tree lock.
//
// The zero value is not usable; construct one with [NewResourceTree].
type ResourceTree struct {
	root *node
}

// NewResourceTree returns an empty tree.
func NewResourceTree() *ResourceTree {
	return &ResourceTree{root: newNode()}
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// descend walks from the root to the node at path, taking IS or IX locks on
// every ancestor (released in reverse order by the returned unlock func)
// and creating any missing intermediate nodes along the way. leafLock
// selects S/X for the final segment.
func (t *ResourceTree) descend(path string, ancestorIS bool, leafLock, leafUnlock func(*NodeLock)) (*node, func()) {
	segs := splitPath(path)
	cur := t.root
	var held []*NodeLock

	lockAncestor := func(n *NodeLock) {
		if ancestorIS {
			n.ISLock()
		} else {
			n.IXLock()
		}
	}
	unlockAncestor := func(n *NodeLock) {
		if ancestorIS {
			n.ISUnlock()
		} else {
			n.IXUnlock()
		}
	}

	for _, seg := range segs {
		lockAncestor(cur.lock)
		held = append(held, cur.lock)
		cur = cur.childOrCreate(seg)
	}

	leafLock(cur.lock)

	return cur, func() {
		leafUnlock(cur.lock)
		for i := len(held) - 1; i >= 0; i-- {
			unlockAncestor(held[i])
		}
	}
}

// Update calls fn with exclusive access to the counters at path, taking IX
// on every ancestor and X on the node itself. Missing nodes along the path
// are created on demand.
func (t *ResourceTree) Update(path string, fn func(*Stats)) {
	n, done := t.descend(path, false, (*NodeLock).XLock, (*NodeLock).XUnlock)
	defer done()
	fn(&n.stats)
}

// Snapshot returns a copy of the counters at path, taking IS on every
// ancestor and S on the node itself. If path has never been updated, it
// returns the zero Stats.
func (t *ResourceTree) Snapshot(path string) Stats {
	n, done := t.descend(path, true, (*NodeLock).SLock, (*NodeLock).SUnlock)
	defer done()
	return n.stats
}
