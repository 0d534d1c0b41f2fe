package diag

import (
	"encoding/json"
	"net/http"
)

// SnapshotHandler returns an http.Handler that serves a JSON-encoded
// [Stats] snapshot for the resource path named by the "path" query
// parameter (e.g. "/resources?path=arm.shoulder.motor"). It is the
// concurrent reader this package's hierarchical locking exists to admit
// without blocking a writer working a disjoint subtree: cmd/armctl's
// `run --http` serves this handler from its own goroutine while
// internal/sched's Loop concurrently calls [ResourceTree.Update] for the
// scenario it's driving.
func (t *ResourceTree) SnapshotHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := t.Snapshot(r.URL.Query().Get("path"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	})
}
