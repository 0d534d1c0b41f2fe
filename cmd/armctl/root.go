package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd(log zerolog.Logger) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "armctl",
		Short: "Run and validate preempt demo scenarios",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log = log.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCmd(&log))
	root.AddCommand(newValidateCmd(&log))
	return root
}
