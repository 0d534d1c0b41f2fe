package preempt

// Borrow is a lightweight handle passed to a [Step] for one of its task's
// required cells. It carries a reference to the cell and the task's
// identity; dereferencing it (via [Borrow.Get], [Borrow.Set], or
// [Borrow.Value]) yields access to the cell's guarded value.
//
// Because [Examine] only ever advances a task's Step while every
// requirement is confirmed held (spec §4.3), a Borrow's dereference is
// total during normal use: it will not fail unless a caller stashes a
// Borrow and uses it outside the Step call it was handed to, which is a
// programmer error (see [OwnershipLostError]). Borrow values are created
// once, by [Wrap1]..[Wrap4], and are not meant to outlive their task.
type Borrow[T any] struct {
	cell   *Cell[T]
	handle *Handle
}

// newBorrow constructs a Borrow over cell for the task identified by h.
func newBorrow[T any](cell *Cell[T], h *Handle) *Borrow[T] {
	return &Borrow[T]{cell: cell, handle: h}
}

// Get returns the cell's current value. It panics with an
// *OwnershipLostError if the owning task is not (or is no longer) the
// cell's recorded holder.
func (b *Borrow[T]) Get() T {
	return *b.mustValue()
}

// Set overwrites the cell's value. It panics with an *OwnershipLostError
// under the same condition as [Borrow.Get].
func (b *Borrow[T]) Set(v T) {
	*b.mustValue() = v
}

// Value returns a pointer directly into the cell's guarded storage, for
// in-place mutation without a read-modify-write round trip (e.g.
// incrementing a counter cell). It panics under the same condition as
// [Borrow.Get].
func (b *Borrow[T]) Value() *T {
	return b.mustValue()
}

// Name returns the underlying cell's diagnostic label.
func (b *Borrow[T]) Name() string {
	return b.cell.Name()
}

func (b *Borrow[T]) mustValue() *T {
	v, err := b.cell.borrow(b.handle)
	if err != nil {
		panic(err)
	}
	return v
}
