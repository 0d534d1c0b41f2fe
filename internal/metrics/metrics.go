// Package metrics exposes internal/sched's task lifecycle events as
// Prometheus counters, registered against a caller-supplied registry rather
// than the global default so cmd/armctl can spin up a fresh registry per
// run instead of accumulating counters across demo invocations.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder is the set of counters a [Loop] (see internal/sched) increments
// as it drives tasks to completion. Labeled by the dotted resource path a
// task's outcome was recorded under.
type Recorder struct {
	claims    *prometheus.CounterVec
	steals    *prometheus.CounterVec
	completes *prometheus.CounterVec
	cancels   *prometheus.CounterVec
}

// NewRecorder builds a Recorder and registers its collectors with reg.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	r := &Recorder{
		claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swiper",
			Subsystem: "cell",
			Name:      "claims_total",
			Help:      "Number of times a task has taken first ownership of a cell.",
		}, []string{"resource"}),
		steals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swiper",
			Subsystem: "cell",
			Name:      "steals_total",
			Help:      "Number of times a task's claim on a cell was observed stolen.",
		}, []string{"resource"}),
		completes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swiper",
			Subsystem: "cell",
			Name:      "completes_total",
			Help:      "Number of times a task voluntarily released a cell by completing.",
		}, []string{"resource"}),
		cancels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swiper",
			Subsystem: "cell",
			Name:      "cancels_total",
			Help:      "Number of times a task released a cell via cancellation.",
		}, []string{"resource"}),
	}
	reg.MustRegister(r.claims, r.steals, r.completes, r.cancels)
	return r
}

// Claim records a first-claim event for resource.
func (r *Recorder) Claim(resource string) { r.claims.WithLabelValues(resource).Inc() }

// Steal records a steal observed against resource.
func (r *Recorder) Steal(resource string) { r.steals.WithLabelValues(resource).Inc() }

// Complete records a voluntary completion releasing resource.
func (r *Recorder) Complete(resource string) { r.completes.WithLabelValues(resource).Inc() }

// Cancel records a cancellation releasing resource.
func (r *Recorder) Cancel(resource string) { r.cancels.WithLabelValues(resource).Inc() }
