// Copyright 2020 Nathan Taylor (nbtaylor@gmail.com)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package diag implements a hierarchical intention lock used to protect a
// [ResourceTree] of per-cell diagnostic counters.
//
// internal/sched's cooperative loop is single-threaded with respect to the
// preempt core itself, but the demo binary (cmd/armctl) also serves a
// JSON snapshot of those counters over HTTP, concurrently, from
// a second goroutine. A robot's resource hierarchy naturally nests
// ("arm.shoulder.motor" is part of "arm.shoulder" is part of "arm"), and a
// snapshot reader should be able to read one subtree's counters without
// blocking writers updating a disjoint subtree, or blocking on the whole
// tree's lock for every scrape.
//
// The lock has four states a caller may request on a given node: S
// ("shared", read this node's own counters), X ("exclusive", write this
// node's own counters), and the "intention" variants IS/IX, which a caller
// takes on every ancestor of the node it actually wants S or X on, so that
// a concurrent X somewhere else in the tree only has to look at the path
// down to its own node rather than walk (or lock) the whole tree.
//
//	+---------------+----------+-----------+-----------+------------+------------+
//	|Request/Holding| Unlocked | Holding X | Holding S | Holding IX | Holding IS |
//	+---------------+----------+-----------+-----------+------------+------------+
//	|Request X      |   Yes    |    No     |    No     |     No     |     No     |
//	|Request S      |   Yes    |    No     |    Yes    |     No     |     Yes    |
//	|Request IX     |   Yes    |    No     |    No     |     Yes    |     Yes    |
//	|Request IS     |   Yes    |    No     |    Yes    |     Yes    |     Yes    |
//	+---------------+----------+-----------+-----------+------------+------------+
//
// SIX (intention-to-share-and-upgrade) is not implemented: nothing in this
// repo needs to upgrade a read lock to a write lock in place.
package diag

import (
	"sync"
	"sync/atomic"
)

// NodeLock is one node's lock in a [ResourceTree]. The four holder counts
// (X, S, IX, IS) are packed into a single uint64 so the common-case
// compatibility check (§ package doc table) is a single atomic load:
//
//	|63      48|47      32|31     16|15      0|
//	 \   IX   / \   IS   / \   S   / \   X   /
type NodeLock struct {
	mtx   sync.Mutex
	cond  *sync.Cond
	state uint64
}

const (
	xOffset  = 0
	sOffset  = 16
	isOffset = 32
	ixOffset = 48

	xMask  = uint64(0xffff) << xOffset
	sMask  = uint64(0xffff) << sOffset
	isMask = uint64(0xffff) << isOffset
	ixMask = uint64(0xffff) << ixOffset
)

func extractX(state uint64) uint64  { return (state & xMask) >> xOffset }
func extractS(state uint64) uint64  { return (state & sMask) >> sOffset }
func extractIS(state uint64) uint64 { return (state & isMask) >> isOffset }
func extractIX(state uint64) uint64 { return (state & ixMask) >> ixOffset }

func setX(state, val uint64) uint64  { return (state &^ xMask) | (val << xOffset) }
func setS(state, val uint64) uint64  { return (state &^ sMask) | (val << sOffset) }
func setIS(state, val uint64) uint64 { return (state &^ isMask) | (val << isOffset) }
func setIX(state, val uint64) uint64 { return (state &^ ixMask) | (val << ixOffset) }

func compatibleWithX(state uint64) bool  { return state == 0 }
func compatibleWithS(state uint64) bool  { return extractX(state) == 0 && extractIX(state) == 0 }
func compatibleWithIX(state uint64) bool { return extractX(state) == 0 && extractS(state) == 0 }
func compatibleWithIS(state uint64) bool { return extractX(state) == 0 }

// newNodeLock returns an unlocked NodeLock.
func newNodeLock() *NodeLock {
	n := &NodeLock{}
	n.cond = sync.NewCond(&n.mtx)
	return n
}

func (n *NodeLock) registerAndCheck(extract func(uint64) uint64, set func(uint64, uint64) uint64, compatible func(uint64) bool) bool {
	for {
		state := atomic.LoadUint64(&n.state)
		next := set(state, extract(state)+1)
		if atomic.CompareAndSwapUint64(&n.state, state, next) {
			return compatible(state)
		}
	}
}

func (n *NodeLock) unregister(extract func(uint64) uint64, set func(uint64, uint64) uint64) uint64 {
	for {
		state := atomic.LoadUint64(&n.state)
		val := extract(state) - 1
		next := set(state, val)
		if atomic.CompareAndSwapUint64(&n.state, state, next) {
			return val
		}
	}
}

// ISLock takes the node for shared read access to its subtree, blocking
// while the node is held X.
func (n *NodeLock) ISLock() {
	n.mtx.Lock()
	for !compatibleWithIS(atomic.LoadUint64(&n.state)) {
		n.cond.Wait()
	}
	n.registerAndCheck(extractIS, setIS, compatibleWithIS)
	n.mtx.Unlock()
}

// ISUnlock releases one IS hold and wakes any blocked waiters if this was
// the last one.
func (n *NodeLock) ISUnlock() {
	if n.unregister(extractIS, setIS) == 0 {
		n.cond.Broadcast()
	}
}

// IXLock takes the node for intention-to-write access, blocking while the
// node is held X or S.
func (n *NodeLock) IXLock() {
	n.mtx.Lock()
	for !compatibleWithIX(atomic.LoadUint64(&n.state)) {
		n.cond.Wait()
	}
	n.registerAndCheck(extractIX, setIX, compatibleWithIX)
	n.mtx.Unlock()
}

// IXUnlock releases one IX hold and wakes any blocked waiters if this was
// the last one.
func (n *NodeLock) IXUnlock() {
	if n.unregister(extractIX, setIX) == 0 {
		n.cond.Broadcast()
	}
}

// SLock takes the node's own counters for shared read access, blocking
// while the node is held X or IX.
func (n *NodeLock) SLock() {
	n.mtx.Lock()
	for !compatibleWithS(atomic.LoadUint64(&n.state)) {
		n.cond.Wait()
	}
	n.registerAndCheck(extractS, setS, compatibleWithS)
	n.mtx.Unlock()
}

// SUnlock releases one S hold and wakes any blocked waiters if this was the
// last one.
func (n *NodeLock) SUnlock() {
	if n.unregister(extractS, setS) == 0 {
		n.cond.Broadcast()
	}
}

// XLock takes the node's own counters for exclusive write access, blocking
// while the node is held in any other state.
func (n *NodeLock) XLock() {
	n.mtx.Lock()
	for !compatibleWithX(atomic.LoadUint64(&n.state)) {
		n.cond.Wait()
	}
	n.registerAndCheck(extractX, setX, compatibleWithX)
	n.mtx.Unlock()
}

// XUnlock releases one X hold and wakes any blocked waiters.
func (n *NodeLock) XUnlock() {
	if n.unregister(extractX, setX) == 0 {
		n.cond.Broadcast()
	}
}
