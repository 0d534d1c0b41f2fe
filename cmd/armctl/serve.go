package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/AngleSideAngle/swiper/internal/diag"
)

// startDiagServer serves tree's resource snapshots and registry's
// Prometheus metrics over HTTP on addr, returning immediately. The server
// runs in its own goroutine for as long as the run command's scheduler
// loop is still driving tasks on the main goroutine, so a request handled
// by this server genuinely races internal/sched's Update calls against
// ResourceTree.Snapshot — the concurrent access [diag.NodeLock] exists to
// admit.
func startDiagServer(addr string, log zerolog.Logger, tree *diag.ResourceTree, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/resources", tree.SnapshotHandler())
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Str("addr", addr).Msg("diagnostics server failed")
		}
	}()
	return srv
}

// stopDiagServer shuts srv down, giving in-flight requests a short grace
// period.
func stopDiagServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
