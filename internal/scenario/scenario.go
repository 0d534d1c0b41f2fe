// Package scenario loads TOML-described demo scenarios for cmd/armctl: a
// set of named cells (each an integer register, standing in for a motor or
// sensor value), and a set of named tasks, each declaring which cells it
// requires and how many times it yields before completing.
//
// Scenario files are deliberately tiny; their purpose is to give the
// preempt core's Wrap1/Wrap2 constructors and internal/sched's Loop
// something driven by human-editable configuration rather than hardcoded
// Go, not to model real hardware.
package scenario

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Cell describes one named integer register a task can require.
type Cell struct {
	Name    string `toml:"name"`
	Initial int    `toml:"initial"`
}

// Task describes one scheduled unit of work: it requires one or two named
// cells (Requires), runs for Yields examinations before completing, and
// optionally documents (StealsFrom) which other task it is expected to
// preempt — purely informational, not enforced.
//
// CancelAfter, when non-zero, has the scheduler call preempt.Task.Cancel on
// this task after it has been examined that many times, abandoning it
// before its Yields count would otherwise let it finish naturally. It
// models a supervisor deciding a task is no longer worth letting run (a
// behavior tree aborting a leaf), rather than another task stealing its
// cells.
type Task struct {
	Name        string   `toml:"name"`
	Requires    []string `toml:"requires"`
	Yields      int      `toml:"yields"`
	StealsFrom  string   `toml:"steals_from"`
	CancelAfter int      `toml:"cancel_after"`
}

// Scenario is the parsed contents of a scenario TOML file.
type Scenario struct {
	Cells []Cell `toml:"cell"`
	Tasks []Task `toml:"task"`
}

// Load parses a scenario from path.
func Load(path string) (*Scenario, error) {
	var s Scenario
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return nil, fmt.Errorf("scenario: decode %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks structural well-formedness: no duplicate cell names, no
// task requiring an unknown cell, and no task requiring the same cell
// twice (which preempt.Wrap2 would otherwise only catch by panicking at
// construction time). It also rejects task arities this demo does not
// support (more than two requirements, or zero).
func (s *Scenario) Validate() error {
	seen := make(map[string]bool, len(s.Cells))
	for _, c := range s.Cells {
		if c.Name == "" {
			return fmt.Errorf("scenario: a [[cell]] entry is missing a name")
		}
		if seen[c.Name] {
			return fmt.Errorf("scenario: duplicate cell name %q", c.Name)
		}
		seen[c.Name] = true
	}

	for _, tk := range s.Tasks {
		if tk.Name == "" {
			return fmt.Errorf("scenario: a [[task]] entry is missing a name")
		}
		switch len(tk.Requires) {
		case 1, 2:
		default:
			return fmt.Errorf("scenario: task %q requires %d cells; only 1 or 2 are supported", tk.Name, len(tk.Requires))
		}
		if len(tk.Requires) == 2 && tk.Requires[0] == tk.Requires[1] {
			return fmt.Errorf("scenario: task %q lists cell %q as a requirement twice", tk.Name, tk.Requires[0])
		}
		for _, req := range tk.Requires {
			if !seen[req] {
				return fmt.Errorf("scenario: task %q requires unknown cell %q", tk.Name, req)
			}
		}
		if tk.Yields <= 0 {
			return fmt.Errorf("scenario: task %q must yield at least once", tk.Name)
		}
		if tk.CancelAfter < 0 {
			return fmt.Errorf("scenario: task %q has a negative cancel_after", tk.Name)
		}
	}

	return nil
}
