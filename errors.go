package preempt

import "fmt"

// PreemptedError is returned, wrapped in a [Progress] of [StatusPreempted],
// when a task discovers that another, later-scheduled task has installed
// itself as the holder of one of the task's required cells. It is the only
// error a completed [Examine] call ever reports (see spec §7's error
// taxonomy: Preempted and ContractViolation are the only two kinds this
// package produces, and ContractViolation never reaches Examine's return
// value — it panics instead, since it signals a programmer bug rather than
// a runtime condition the caller should branch on).
type PreemptedError struct {
	// Requirement is the name of the cell whose theft was observed first.
	// Because installation across a requirement set happens as a whole
	// before any newcomer advances, exactly which requirement is reported
	// here is implementation-defined (see spec §4.2's "Ordering and
	// tie-breaking") — the task is preempted as a whole regardless of
	// which one is named.
	Requirement string
}

func (e *PreemptedError) Error() string {
	return fmt.Sprintf("preempt: requirement %q was claimed by another task", e.Requirement)
}

// OwnershipLostError is raised by [Borrow.Get], [Borrow.Set], and
// [Borrow.Value] when called by a task that is not (or is no longer) the
// recorded holder of the underlying cell. Under the protocol this package
// enforces, that should never happen during a [Step]'s normal execution —
// [Examine] only ever calls a task's Step while every requirement is
// confirmed held — so encountering this error means a caller kept a Borrow
// handle around past its task's lifetime and used it outside an active
// Examine call. It is a ContractViolation per spec §7: a programmer bug,
// not a recoverable condition, which is why the borrow accessors panic with
// it rather than returning it. [Cell.WithBorrow] is the exception: it
// returns this error, without panicking, whenever its handle is not the
// cell's current holder.
type OwnershipLostError struct {
	// Cell is the name of the cell the stale borrow pointed at.
	Cell string
}

func (e *OwnershipLostError) Error() string {
	return fmt.Sprintf("preempt: borrow of cell %q used by a non-holder", e.Cell)
}
