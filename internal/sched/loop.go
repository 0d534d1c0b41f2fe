// Package sched is a minimal single-goroutine, cooperative round-robin
// executor that drives [preempt.Task] instances and observes their
// outcomes for logging and metrics. It satisfies exactly the executor
// contract spec.md §6 asks of it and nothing more: one task examined at a
// time, never the same task instance examined reentrantly, and a waker
// handed to each examination. The waker is not consulted: every unfinished
// task is examined again on each pass, whether or not it called its waker.
//
// This package is a reference consumer of the preempt core, not part of
// it: spec.md §1 explicitly places "the cooperative scheduler that drives
// the tasks" out of the core's scope.
package sched

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AngleSideAngle/swiper/internal/diag"
	"github.com/AngleSideAngle/swiper/internal/metrics"
)

// entry is one task registered with the Loop: its diagnostic label, the
// resource-tree path its outcomes should be recorded under, and the
// examineOnce closure a caller built around a single preempt.Examine call.
type entry struct {
	label       string
	resource    string
	examineOnce func(w func()) Outcome
	done        bool
}

// Outcome is the arity-erased result of one examineOnce call: sched only
// needs to know whether a task finished and, if so, whether it finished by
// completing, being preempted, or being cancelled by the scheduler itself —
// it has no business knowing a task's generic result type R.
type Outcome struct {
	Pending   bool
	Preempted bool
	Cancelled bool
	Reason    string // requirement name, when Preempted
}

// Loop is a single-threaded, cooperative round-robin executor over a fixed
// set of tasks, registered before [Loop.Run] is called.
type Loop struct {
	log     zerolog.Logger
	tree    *diag.ResourceTree
	metrics *metrics.Recorder
	runID   uuid.UUID
	queue   []*entry
	cursor  int
}

// New returns a Loop that logs through log and records per-resource
// counters into tree and rec. Either may be nil, in which case that
// particular recording is skipped (useful for tests that only care about
// scheduling behavior).
func New(log zerolog.Logger, tree *diag.ResourceTree, rec *metrics.Recorder) *Loop {
	runID := uuid.New()
	return &Loop{
		log:     log.With().Str("run_id", runID.String()).Logger(),
		tree:    tree,
		metrics: rec,
		runID:   runID,
	}
}

// Spawn registers a task for scheduling. label and resource are purely
// diagnostic (resource is the dotted [diag.ResourceTree] path its counters
// are recorded under, typically the task's first requirement's name).
// examineOnce wraps a single call to [preempt.Examine] for one concrete
// result type, erasing it down to an [Outcome]; see the sched package's
// examine helpers (Task1, Task2, ...) in examine.go for how callers
// typically build this closure.
func (l *Loop) Spawn(label, resource string, examineOnce func(w func()) Outcome) {
	l.queue = append(l.queue, &entry{label: label, resource: resource, examineOnce: examineOnce})
}

// Run drives every registered task to a terminal outcome (Done, Preempted,
// or Cancelled), in round-robin order, examining each unfinished task once
// per pass regardless of whether it called its waker. It returns once
// every registered task has reached a terminal state.
//
// Run is not safe to call from two goroutines at once, nor reentrantly: it
// is itself the single examiner spec.md §5 requires of an executor.
func (l *Loop) Run() {
	remaining := len(l.queue)
	for remaining > 0 {
		for _, e := range l.queue {
			if e.done {
				continue
			}
			woken := false
			outcome := e.examineOnce(func() { woken = true })
			_ = woken // not consulted: the task is examined again on the
			// next pass whether or not it called its waker, so a task
			// waiting on something external is busy-polled.

			switch {
			case outcome.Pending:
				l.log.Debug().Str("task", e.label).Str("resource", e.resource).Msg("pending")
			case outcome.Cancelled:
				e.done = true
				remaining--
				l.recordCancel(e.resource)
				l.log.Info().Str("task", e.label).Str("resource", e.resource).Msg("cancelled")
			case outcome.Preempted:
				e.done = true
				remaining--
				l.recordSteal(e.resource)
				l.log.Info().Str("task", e.label).Str("resource", e.resource).Str("stolen_by_requirement", outcome.Reason).Msg("preempted")
			default:
				e.done = true
				remaining--
				l.recordComplete(e.resource)
				l.log.Info().Str("task", e.label).Str("resource", e.resource).Msg("done")
			}
		}
	}
}

func (l *Loop) recordSteal(resource string) {
	if resource == "" {
		return
	}
	if l.tree != nil {
		l.tree.Update(resource, func(s *diag.Stats) { s.Steals++ })
	}
	if l.metrics != nil {
		l.metrics.Steal(resource)
	}
}

func (l *Loop) recordComplete(resource string) {
	if resource == "" {
		return
	}
	if l.tree != nil {
		l.tree.Update(resource, func(s *diag.Stats) { s.Completes++ })
	}
	if l.metrics != nil {
		l.metrics.Complete(resource)
	}
}

func (l *Loop) recordCancel(resource string) {
	if resource == "" {
		return
	}
	if l.tree != nil {
		l.tree.Update(resource, func(s *diag.Stats) { s.Cancels++ })
	}
	if l.metrics != nil {
		l.metrics.Cancel(resource)
	}
}

// RunID returns the UUID attached to every log line this Loop emits,
// useful for correlating a single demo invocation's events.
func (l *Loop) RunID() uuid.UUID {
	return l.runID
}

// Tree returns the resource tree this Loop was constructed with (possibly
// nil), so callers building examineOnce closures with [Task1] or [Task2]
// can share it.
func (l *Loop) Tree() *diag.ResourceTree {
	return l.tree
}

// Metrics returns the Prometheus recorder this Loop was constructed with
// (possibly nil), so callers building examineOnce closures with [Task1] or
// [Task2] can share it.
func (l *Loop) Metrics() *metrics.Recorder {
	return l.metrics
}
