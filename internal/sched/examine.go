package sched

import (
	"github.com/AngleSideAngle/swiper"
	"github.com/AngleSideAngle/swiper/internal/diag"
	"github.com/AngleSideAngle/swiper/internal/metrics"
)

// recordClaim increments the claim counter in whichever of tree and rec are
// non-nil. Either or both may be nil; resource may be empty to mean "don't
// record claims for this task" (e.g. for unlabeled test fixtures).
func recordClaim(tree *diag.ResourceTree, rec *metrics.Recorder, resource string) {
	if resource == "" {
		return
	}
	if tree != nil {
		tree.Update(resource, func(s *diag.Stats) { s.Claims++ })
	}
	if rec != nil {
		rec.Claim(resource)
	}
}

// Task1 builds the examineOnce closure [Loop.Spawn] expects, around a
// single-requirement preempt.Task[R]. It is generic over R so the demo can
// schedule tasks with whatever result type they like while Loop itself
// only ever sees the arity-erased [Outcome].
//
// The examination that first moves t out of its fresh state (see
// [preempt.Task.Claimed]) increments the Claims counter exactly once — the
// preempt core itself has no notion of "first claim" to report, only "am I
// the current holder right now".
func Task1[R any](tree *diag.ResourceTree, rec *metrics.Recorder, resource string, t *preempt.Task[R]) func(w func()) Outcome {
	return func(w func()) Outcome {
		wasClaimed := t.Claimed()
		progress := preempt.Examine(t, preempt.Waker(w))
		if !wasClaimed && t.Claimed() {
			recordClaim(tree, rec, resource)
		}
		return outcomeOf(progress)
	}
}

// Task2 is [Task1] for a two-requirement preempt.Task[R]. The claim
// counter it maintains is recorded once, under resource, which by
// convention is the first requirement's name (multi-resource claims are a
// single atomic event across the whole set; see spec §4.2's "Ordering and
// tie-breaking").
func Task2[R any](tree *diag.ResourceTree, rec *metrics.Recorder, resource string, t *preempt.Task[R]) func(w func()) Outcome {
	return func(w func()) Outcome {
		wasClaimed := t.Claimed()
		progress := preempt.Examine(t, preempt.Waker(w))
		if !wasClaimed && t.Claimed() {
			recordClaim(tree, rec, resource)
		}
		return outcomeOf(progress)
	}
}

// WithCancelAfter wraps an examineOnce closure (as built by [Task1] or
// [Task2]) so that, once the wrapped task has been examined n times without
// reaching a terminal outcome, the scheduler calls cancel instead of
// examining it again and reports [Outcome.Cancelled]. n <= 0 disables
// cancellation and returns next unwrapped.
//
// cancel is expected to be a closure over the concrete *preempt.Task[R]
// calling its Cancel method — kept arity-erased here like the rest of this
// package, since WithCancelAfter itself never needs to know R.
func WithCancelAfter(n int, cancel func(), next func(w func()) Outcome) func(w func()) Outcome {
	if n <= 0 {
		return next
	}
	examinations := 0
	cancelled := false
	return func(w func()) Outcome {
		if cancelled {
			// cancel already moved the task to Done, and preempt.Examine
			// panics when a Done task is examined again; Loop never
			// reaches this branch since it marks the entry done on the
			// Cancelled outcome below, but guard it anyway.
			return Outcome{Cancelled: true}
		}
		examinations++
		if examinations > n {
			cancel()
			cancelled = true
			return Outcome{Cancelled: true}
		}
		return next(w)
	}
}

func outcomeOf[R any](progress preempt.Progress[R]) Outcome {
	switch progress.Status {
	case preempt.StatusPending:
		return Outcome{Pending: true}
	case preempt.StatusPreempted:
		reason := ""
		if pe, ok := progress.Err.(*preempt.PreemptedError); ok {
			reason = pe.Requirement
		}
		return Outcome{Preempted: true, Reason: reason}
	default:
		return Outcome{}
	}
}
