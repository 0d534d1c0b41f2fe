package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/AngleSideAngle/swiper"
	"github.com/AngleSideAngle/swiper/internal/diag"
	"github.com/AngleSideAngle/swiper/internal/metrics"
	"github.com/AngleSideAngle/swiper/internal/scenario"
	"github.com/AngleSideAngle/swiper/internal/sched"
)

func newRunCmd(log *zerolog.Logger) *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "run <scenario.toml>",
		Short: "Schedule a scenario's tasks to completion and print the resulting diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			if err := s.Validate(); err != nil {
				return err
			}

			registry := prometheus.NewRegistry()
			rec := metrics.NewRecorder(registry)
			tree := diag.NewResourceTree()
			loop := sched.New(*log, tree, rec)

			cells := make(map[string]*preempt.Cell[int], len(s.Cells))
			for _, c := range s.Cells {
				cells[c.Name] = preempt.NewCell(c.Initial, c.Name)
			}

			for _, tk := range s.Tasks {
				spawnTask(loop, cells, tk)
			}

			if httpAddr != "" {
				srv := startDiagServer(httpAddr, *log, tree, registry)
				defer stopDiagServer(srv)
				fmt.Fprintf(cmd.OutOrStdout(), "serving diagnostics on %s while the run proceeds\n", httpAddr)
			}

			// loop.Run() is the sole writer into tree for the remainder of
			// this call; if httpAddr is set, the diagnostics server above
			// is concurrently reading it from its own goroutine.
			loop.Run()
			fmt.Fprintf(cmd.OutOrStdout(), "run %s complete\n", loop.RunID())
			printStats(cmd, s, tree)
			return printMetrics(cmd, registry)
		},
	}
	cmd.Flags().StringVar(&httpAddr, "http", "", "serve live resource diagnostics and Prometheus metrics on this address while the run proceeds (e.g. :9090)")
	return cmd
}

// spawnTask builds and registers the preempt.Task for one scenario.Task,
// choosing Wrap1 or Wrap2 based on how many cells it requires (scenario
// files are restricted to 1 or 2 by [scenario.Scenario.Validate]).
func spawnTask(loop *sched.Loop, cells map[string]*preempt.Cell[int], tk scenario.Task) {
	resource := tk.Requires[0]
	switch len(tk.Requires) {
	case 1:
		c := cells[tk.Requires[0]]
		t := preempt.WrapLabeled1(tk.Name, c, func(b *preempt.Borrow[int]) preempt.Step[int] {
			remaining := tk.Yields
			return func(w preempt.Waker) (int, bool) {
				remaining--
				b.Set(b.Get() + 1)
				return b.Get(), remaining <= 0
			}
		})
		examineOnce := sched.WithCancelAfter(tk.CancelAfter, t.Cancel, sched.Task1(loop.Tree(), loop.Metrics(), resource, t))
		loop.Spawn(tk.Name, resource, examineOnce)
	case 2:
		c1, c2 := cells[tk.Requires[0]], cells[tk.Requires[1]]
		t := preempt.WrapLabeled2(tk.Name, c1, c2, func(b1, b2 *preempt.Borrow[int]) preempt.Step[int] {
			remaining := tk.Yields
			return func(w preempt.Waker) (int, bool) {
				remaining--
				b1.Set(b1.Get() + 1)
				b2.Set(b2.Get() + 1)
				return b1.Get(), remaining <= 0
			}
		})
		examineOnce := sched.WithCancelAfter(tk.CancelAfter, t.Cancel, sched.Task2(loop.Tree(), loop.Metrics(), resource, t))
		loop.Spawn(tk.Name, resource, examineOnce)
	}
}

func printStats(cmd *cobra.Command, s *scenario.Scenario, tree *diag.ResourceTree) {
	out := cmd.OutOrStdout()
	for _, c := range s.Cells {
		snap := tree.Snapshot(c.Name)
		fmt.Fprintf(out, "  %-12s claims=%d steals=%d completes=%d cancels=%d\n",
			c.Name, snap.Claims, snap.Steals, snap.Completes, snap.Cancels)
	}
}

func printMetrics(cmd *cobra.Command, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(cmd.OutOrStdout(), expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
