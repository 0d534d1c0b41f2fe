package preempt

import "sync/atomic"

// cellRef is the type-erased view of a [Cell] that [Task] needs in order to
// hold a heterogeneous requirement set ([]cellRef of *Cell[int], *Cell[Pose],
// ...) without reflection. Every method Cell[T] needs to satisfy this has a
// signature independent of T, so Cell[T] implements cellRef for any T with
// no adapter type required.
type cellRef interface {
	IsHeldBy(h *Handle) bool
	Install(h *Handle) *Handle
	Release(h *Handle)
	Name() string
}

// Cell is a single-slot revocable container for a value of type T, plus the
// identity of whichever task most recently claimed it. It is the Go
// realization of the spec's Revocable Cell: at most one task is ever
// recorded as the current holder, installing a new holder always succeeds
// immediately (stealing, if someone was already there), and the guarded
// value is only ever accessed by its holder, through a [Borrow].
//
// A Cell's zero value is not usable; construct one with [NewCell].
type Cell[T any] struct {
	value  T
	name   string
	holder atomic.Pointer[Handle]
}

// NewCell creates an idle cell holding initial, labelled name for
// diagnostics (appears in [PreemptedError] and [OwnershipLostError]
// messages, and in any logging a consumer layers on top).
func NewCell[T any](initial T, name string) *Cell[T] {
	return &Cell[T]{value: initial, name: name}
}

// Name returns the cell's diagnostic label.
func (c *Cell[T]) Name() string {
	return c.name
}

// IsHeldBy reports whether h is the cell's current holder.
func (c *Cell[T]) IsHeldBy(h *Handle) bool {
	return c.holder.Load() == h
}

// Install atomically records newHolder as the cell's current holder and
// returns whoever held it immediately before (nil if the cell was idle).
// Install always succeeds and never blocks: this is the sole mechanism of
// stealing. It is a single atomic swap of one pointer-sized word.
func (c *Cell[T]) Install(newHolder *Handle) (previous *Handle) {
	return c.holder.Swap(newHolder)
}

// Release clears the cell's holder if, and only if, it is currently h.
// Calling Release with a stale handle (one that has already been
// superseded by a steal, or that never held the cell) is a no-op, making
// Release idempotent by construction: a second call, or a call that loses
// a race against a concurrent Install, simply does nothing because the
// compare-and-swap's expected value no longer matches.
func (c *Cell[T]) Release(h *Handle) {
	c.holder.CompareAndSwap(h, nil)
}

// borrow returns a pointer to the guarded value if h is the current
// holder, or an *OwnershipLostError otherwise. It never mutates the cell.
func (c *Cell[T]) borrow(h *Handle) (*T, error) {
	if !c.IsHeldBy(h) {
		return nil, &OwnershipLostError{Cell: c.name}
	}
	return &c.value, nil
}

// WithBorrow invokes fn with exclusive, mutable access to the cell's value,
// provided h proves to be the current holder. If h is not the current
// holder, WithBorrow does not invoke fn and returns an *OwnershipLostError
// without mutating anything. This is the coarse-grained "checked at the
// boundary, not the access" borrow described in spec §4.1: inside fn, the
// caller may read and write *T freely with no further bookkeeping.
func (c *Cell[T]) WithBorrow(h *Handle, fn func(*T)) error {
	v, err := c.borrow(h)
	if err != nil {
		return err
	}
	fn(v)
	return nil
}
