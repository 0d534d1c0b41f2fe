package preempt

// Wrap1, Wrap2, Wrap3, and Wrap4 are the N-ary requirement-set family
// described in spec §4.2 and §9: Go has no variadic generics, so instead of
// one generic-over-a-tuple constructor, each arity gets its own generated
// function. The contract is identical across all four: the cells are
// treated atomically for installation and release (every one of them is
// installed, on the task's first [Examine], before the inner [Step] is
// ever advanced), and build is invoked exactly once, at construction time,
// with one [Borrow] per declared cell, to produce the inner Step.
//
// None of Wrap1..Wrap4 touches any cell. Claiming is lazy, tied to the
// task's first [Examine] call (spec §4.2 "First-poll semantics") — a
// task that is constructed but never examined never preempts anything.
//
// Each panics if the same *Cell address is passed more than once, since a
// task declaring the same requirement twice is a contract violation (spec
// §5) detectable at construction time.

// Wrap1 builds a [Task] requiring a single cell.
func Wrap1[T1, R any](c1 *Cell[T1], build func(*Borrow[T1]) Step[R]) *Task[R] {
	return wrapLabeled1("", c1, build)
}

// Wrap2 builds a [Task] requiring two cells.
func Wrap2[T1, T2, R any](c1 *Cell[T1], c2 *Cell[T2], build func(*Borrow[T1], *Borrow[T2]) Step[R]) *Task[R] {
	return wrapLabeled2("", c1, c2, build)
}

// Wrap3 builds a [Task] requiring three cells.
func Wrap3[T1, T2, T3, R any](c1 *Cell[T1], c2 *Cell[T2], c3 *Cell[T3], build func(*Borrow[T1], *Borrow[T2], *Borrow[T3]) Step[R]) *Task[R] {
	return wrapLabeled3("", c1, c2, c3, build)
}

// Wrap4 builds a [Task] requiring four cells.
func Wrap4[T1, T2, T3, T4, R any](c1 *Cell[T1], c2 *Cell[T2], c3 *Cell[T3], c4 *Cell[T4], build func(*Borrow[T1], *Borrow[T2], *Borrow[T3], *Borrow[T4]) Step[R]) *Task[R] {
	return wrapLabeled4("", c1, c2, c3, c4, build)
}

// WrapLabeled1 is [Wrap1] with an explicit diagnostic label for the
// resulting task (see [Task.Label]), instead of the default "task".
func WrapLabeled1[T1, R any](label string, c1 *Cell[T1], build func(*Borrow[T1]) Step[R]) *Task[R] {
	return wrapLabeled1(label, c1, build)
}

// WrapLabeled2 is [Wrap2] with an explicit diagnostic label.
func WrapLabeled2[T1, T2, R any](label string, c1 *Cell[T1], c2 *Cell[T2], build func(*Borrow[T1], *Borrow[T2]) Step[R]) *Task[R] {
	return wrapLabeled2(label, c1, c2, build)
}

// WrapLabeled3 is [Wrap3] with an explicit diagnostic label.
func WrapLabeled3[T1, T2, T3, R any](label string, c1 *Cell[T1], c2 *Cell[T2], c3 *Cell[T3], build func(*Borrow[T1], *Borrow[T2], *Borrow[T3]) Step[R]) *Task[R] {
	return wrapLabeled3(label, c1, c2, c3, build)
}

// WrapLabeled4 is [Wrap4] with an explicit diagnostic label.
func WrapLabeled4[T1, T2, T3, T4, R any](label string, c1 *Cell[T1], c2 *Cell[T2], c3 *Cell[T3], c4 *Cell[T4], build func(*Borrow[T1], *Borrow[T2], *Borrow[T3], *Borrow[T4]) Step[R]) *Task[R] {
	return wrapLabeled4(label, c1, c2, c3, c4, build)
}

func wrapLabeled1[T1, R any](label string, c1 *Cell[T1], build func(*Borrow[T1]) Step[R]) *Task[R] {
	reqs := []cellRef{c1}
	checkDuplicateReqs(reqs)
	t := newTask[R](label, reqs)
	t.step = build(newBorrow(c1, &t.handle))
	return t
}

func wrapLabeled2[T1, T2, R any](label string, c1 *Cell[T1], c2 *Cell[T2], build func(*Borrow[T1], *Borrow[T2]) Step[R]) *Task[R] {
	reqs := []cellRef{c1, c2}
	checkDuplicateReqs(reqs)
	t := newTask[R](label, reqs)
	t.step = build(newBorrow(c1, &t.handle), newBorrow(c2, &t.handle))
	return t
}

func wrapLabeled3[T1, T2, T3, R any](label string, c1 *Cell[T1], c2 *Cell[T2], c3 *Cell[T3], build func(*Borrow[T1], *Borrow[T2], *Borrow[T3]) Step[R]) *Task[R] {
	reqs := []cellRef{c1, c2, c3}
	checkDuplicateReqs(reqs)
	t := newTask[R](label, reqs)
	t.step = build(newBorrow(c1, &t.handle), newBorrow(c2, &t.handle), newBorrow(c3, &t.handle))
	return t
}

func wrapLabeled4[T1, T2, T3, T4, R any](label string, c1 *Cell[T1], c2 *Cell[T2], c3 *Cell[T3], c4 *Cell[T4], build func(*Borrow[T1], *Borrow[T2], *Borrow[T3], *Borrow[T4]) Step[R]) *Task[R] {
	reqs := []cellRef{c1, c2, c3, c4}
	checkDuplicateReqs(reqs)
	t := newTask[R](label, reqs)
	t.step = build(newBorrow(c1, &t.handle), newBorrow(c2, &t.handle), newBorrow(c3, &t.handle), newBorrow(c4, &t.handle))
	return t
}
