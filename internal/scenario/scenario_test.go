package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadParsesCellsAndTasks(t *testing.T) {
	path := writeTemp(t, `
[[cell]]
name = "shoulder"
initial = 0

[[cell]]
name = "gripper"
initial = 0

[[task]]
name = "reach"
requires = ["shoulder"]
yields = 3

[[task]]
name = "reach-and-grip"
requires = ["shoulder", "gripper"]
yields = 2
steals_from = "reach"
`)

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Len(t, s.Cells, 2)
	assert.Len(t, s.Tasks, 2)
	assert.Equal(t, "reach", s.Tasks[0].Name)
	assert.Equal(t, "reach", s.Tasks[1].StealsFrom)
}

func TestValidateRejectsUnknownCell(t *testing.T) {
	s := &Scenario{
		Cells: []Cell{{Name: "shoulder"}},
		Tasks: []Task{{Name: "reach", Requires: []string{"elbow"}, Yields: 1}},
	}
	err := s.Validate()
	assert.ErrorContains(t, err, "unknown cell")
}

func TestValidateRejectsDuplicateRequirement(t *testing.T) {
	s := &Scenario{
		Cells: []Cell{{Name: "shoulder"}},
		Tasks: []Task{{Name: "reach", Requires: []string{"shoulder", "shoulder"}, Yields: 1}},
	}
	err := s.Validate()
	assert.ErrorContains(t, err, "twice")
}

func TestValidateRejectsTooManyRequirements(t *testing.T) {
	s := &Scenario{
		Cells: []Cell{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		Tasks: []Task{{Name: "reach", Requires: []string{"a", "b", "c"}, Yields: 1}},
	}
	err := s.Validate()
	assert.ErrorContains(t, err, "only 1 or 2")
}

func TestValidateRejectsZeroYields(t *testing.T) {
	s := &Scenario{
		Cells: []Cell{{Name: "a"}},
		Tasks: []Task{{Name: "reach", Requires: []string{"a"}, Yields: 0}},
	}
	err := s.Validate()
	assert.ErrorContains(t, err, "must yield")
}

func TestValidateRejectsDuplicateCellName(t *testing.T) {
	s := &Scenario{
		Cells: []Cell{{Name: "a"}, {Name: "a"}},
	}
	err := s.Validate()
	assert.ErrorContains(t, err, "duplicate cell")
}

func TestValidateRejectsNegativeCancelAfter(t *testing.T) {
	s := &Scenario{
		Cells: []Cell{{Name: "a"}},
		Tasks: []Task{{Name: "reach", Requires: []string{"a"}, Yields: 1, CancelAfter: -1}},
	}
	err := s.Validate()
	assert.ErrorContains(t, err, "cancel_after")
}

func TestLoadParsesCancelAfter(t *testing.T) {
	path := writeTemp(t, `
[[cell]]
name = "elbow"
initial = 0

[[task]]
name = "reach"
requires = ["elbow"]
yields = 10
cancel_after = 3
`)

	s, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, 3, s.Tasks[0].CancelAfter)
}
