// Command armctl runs and validates scenario files that describe a small
// set of cells and tasks driven by internal/sched's reference cooperative
// executor, as a hands-on demonstration of the preempt package.
package main

import (
	"os"

	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := newRootCmd(log).Execute(); err != nil {
		log.Error().Err(err).Msg("armctl failed")
		os.Exit(1)
	}
}
