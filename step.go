package preempt

// Waker is the wake-up mechanism an executor hands to a task's [Step] on
// each call. A Step that is not ready to produce a result yet (returns
// done == false) is responsible for arranging for w to be invoked later —
// from a goroutine, a timer, another task's completion, a hardware
// interrupt callback, whatever the surrounding framework uses — at which
// point the executor is expected to examine the task again. This package
// never calls a Waker itself; it only threads the one it is given by the
// caller of [Examine] through to the inner Step.
type Waker func()

// Step is one inner asynchronous computation's single-step advance
// function. An executor calling [Examine] ends up invoking a task's Step
// exactly once per examination, while every declared requirement is
// confirmed held. Step returns (zero value, false) to mean "not finished
// yet, call [Waker] when I should be re-examined" (possibly having already
// called it synchronously, if more progress can be made right away without
// waiting on anything external), or (result, true) to signal completion.
//
// A Step must not retain the [Borrow] handles it closed over beyond the
// lifetime of its enclosing [Task] — see [OwnershipLostError].
type Step[R any] func(w Waker) (result R, done bool)
