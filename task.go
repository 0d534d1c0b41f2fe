package preempt

import "sync/atomic"

// taskState is the Task.state machine from spec §3: Fresh -> Running,
// Running -> Preempted, Running -> Done, plus Fresh -> Done and
// Running -> Done through [Task.Cancel], and no other transition. It is
// stored as an atomic.Int32 rather than guarded by a mutex because the
// package's single-examiner assumption (see [Examine]) means reads and
// writes of it are never contended — the atomic is there for visibility
// across goroutines handing the same task off between examinations, not
// for mutual exclusion.
type taskState int32

const (
	stateFresh taskState = iota
	stateRunning
	statePreempted
	stateDone
)

// Status is the outcome category of one [Examine] call; see [Progress].
type Status int

const (
	// StatusPending means the inner Step has not finished and has
	// arranged to be re-examined later via the [Waker] it was given.
	StatusPending Status = iota
	// StatusDone means the inner Step completed successfully; every
	// requirement the task still held has been released.
	StatusDone
	// StatusPreempted means the task was stolen from before, or as of,
	// this examination. The inner Step was not advanced in this call and
	// the task holds none of its requirements.
	StatusPreempted
)

// Progress is what [Examine] returns: one of Pending, Done(Value), or
// Preempted(Err), matching spec §4.2's Progress type.
type Progress[R any] struct {
	Status Status
	// Value holds the Step's result; only meaningful when Status is
	// StatusDone.
	Value R
	// Err is non-nil only when Status is StatusPreempted, in which case
	// it is always a *[PreemptedError].
	Err error
}

// Task binds an inner [Step] to one or more required [Cell]s. Construct one
// with [Wrap1], [Wrap2], [Wrap3], or [Wrap4]; advance it by passing it to
// [Examine].
//
// A *Task must never be copied after it has been passed to [Examine]: its
// embedded [Handle] is used by address as the task's identity, and every
// cell it has claimed remembers that address.
type Task[R any] struct {
	handle Handle
	reqs   []cellRef
	state  atomic.Int32
	step   Step[R]

	// preemptedBy records which requirement's theft was first observed,
	// written exactly once, under the same Examine call that transitions
	// state to statePreempted, and read only afterwards — safe without
	// further synchronization because spec §5 guarantees a task is never
	// examined from two goroutines, nor reentrantly, at once.
	preemptedBy string
}

// Label returns the task's diagnostic name: the Handle's Label if one was
// given at construction, or the fixed string "task" otherwise.
func (t *Task[R]) Label() string {
	if t.handle.Label != "" {
		return t.handle.Label
	}
	return "task"
}

// Claimed reports whether t has made its first claim on its requirements
// yet — that is, whether it has left [stateFresh], regardless of whether
// it has since completed or been preempted. A diagnostics layer built on
// top of this package (see internal/sched) uses this to recognize the
// single examination that transitions a task from never-having-run to
// having claimed its resources, so it can count that event exactly once.
func (t *Task[R]) Claimed() bool {
	return taskState(t.state.Load()) != stateFresh
}

// newTask builds the shared Task[R] scaffold for the Wrap* family. reqs
// must contain no duplicate cell identity; Wrap* enforces that before
// calling this.
func newTask[R any](label string, reqs []cellRef) *Task[R] {
	t := &Task[R]{reqs: reqs}
	t.handle.Label = label
	return t
}

// checkDuplicateReqs panics with a description of the offending cell if any
// two entries in reqs refer to the same cell, per spec §5: "a task must not
// list the same cell twice in its requirement set." This is checked once,
// at construction, rather than on every Examine, since the requirement set
// is fixed for a task's lifetime.
func checkDuplicateReqs(reqs []cellRef) {
	for i := 1; i < len(reqs); i++ {
		for j := 0; j < i; j++ {
			if reqs[i] == reqs[j] {
				panic("preempt: task declares cell \"" + reqs[i].Name() + "\" as a requirement more than once")
			}
		}
	}
}

// Examine is the executor's single-step advancement of t, implementing the
// examination protocol from spec §4.2:
//
//  1. Fast path: an already-[StatusPreempted] task reports
//     [StatusPreempted] again without touching anything (see DESIGN.md for
//     why repeating, rather than treating re-examination as a contract
//     violation, was chosen to resolve the spec's Open Question). An
//     already-[StatusDone] task is a contract violation and panics.
//  2. Claim/refresh: for every required cell, either it is already held by
//     t (continue), or this is t's first examination (install on it), or t
//     has been stolen from (transition to Preempted, release any
//     requirement the thief did not take, and return without advancing
//     the Step; a cell the thief now holds is left untouched).
//  3. If still Running with every requirement confirmed held, advance the
//     inner Step once.
//  4. On completion, release every requirement still held and transition
//     to Done.
//
// Examine assumes, and never itself enforces, the single-executor contract
// from spec §5 and §6: the same *Task is never examined from two goroutines
// simultaneously, and never reentrantly from within its own Step. Violating
// that assumption is undefined behavior, exactly as it would be for a data
// structure documented as "not safe for concurrent use".
func Examine[R any](t *Task[R], w Waker) Progress[R] {
	switch taskState(t.state.Load()) {
	case statePreempted:
		return Progress[R]{Status: StatusPreempted, Err: &PreemptedError{Requirement: t.preemptedBy}}
	case stateDone:
		panic("preempt: task \"" + t.Label() + "\" examined after it already returned StatusDone")
	}

	fresh := taskState(t.state.Load()) == stateFresh

	for _, c := range t.reqs {
		if c.IsHeldBy(&t.handle) {
			continue
		}
		if fresh {
			c.Install(&t.handle)
			continue
		}
		// Running, but not holding a requirement we previously held:
		// someone else installed themselves on it since our last
		// examination. The task is preempted as a whole, regardless of
		// which requirement we happened to check first (spec §4.2
		// "Ordering and tie-breaking").
		t.preemptedBy = c.Name()
		t.state.Store(int32(statePreempted))
		// Release is a compare-and-swap against our own handle, so this
		// clears only the requirements nobody has stolen yet.
		for _, other := range t.reqs {
			other.Release(&t.handle)
		}
		return Progress[R]{Status: StatusPreempted, Err: &PreemptedError{Requirement: c.Name()}}
	}

	if fresh {
		t.state.Store(int32(stateRunning))
	}

	value, done := t.step(w)
	if !done {
		return Progress[R]{Status: StatusPending}
	}

	for _, c := range t.reqs {
		if c.IsHeldBy(&t.handle) {
			c.Release(&t.handle)
		}
	}
	t.state.Store(int32(stateDone))
	return Progress[R]{Status: StatusDone, Value: value}
}

// Cancel releases every requirement t currently holds and marks it Done,
// without ever stealing anything and without advancing its Step. It is the
// Go stand-in for spec §5's "Cancellation" paragraph ("dropping the task
// unwinds normally... destruction never steals") — Go has no destructors,
// so a scheduler that discards a task early (a behavior tree aborting a
// running leaf, for instance) calls Cancel explicitly instead.
//
// Cancel is idempotent and safe to call on a task in any state, including
// one already Done or Preempted.
func (t *Task[R]) Cancel() {
	for {
		cur := taskState(t.state.Load())
		if cur == statePreempted || cur == stateDone {
			// Already terminal: nothing held, and we must not overwrite
			// a Preempted task's diagnostic state with Done.
			return
		}
		if t.state.CompareAndSwap(int32(cur), int32(stateDone)) {
			break
		}
	}
	for _, c := range t.reqs {
		if c.IsHeldBy(&t.handle) {
			c.Release(&t.handle)
		}
	}
}
