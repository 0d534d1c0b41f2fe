package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/AngleSideAngle/swiper/internal/scenario"
)

func newValidateCmd(log *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.toml>",
		Short: "Check a scenario file for structural errors without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			if err := s.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d cells, %d tasks, ok\n", args[0], len(s.Cells), len(s.Tasks))
			return nil
		},
	}
}
