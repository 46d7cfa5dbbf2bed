// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/oed"
	"github.com/katalvlaran/oed/doe"
)

const base = `
logging:
  level: error
reactor:
  substeps: 1
solver:
  design_evaluations: 20
factorial:
  design_ranges:
    "CA[0]": [1, 5, 2]
    "T[0]": [300, 700, 2]
  sensitivity_design_variables: ["CA[0]", "T[0]"]
  fixed_design_variables: {"T[1]": 300}
`

func run(t *testing.T, body string, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", path))
	err := cmd.Execute()

	return out.String(), err
}

func TestFIMCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, base, "fim")
	require.NoError(t, err)
	assert.Contains(t, out, "FIM (central differences, sequential)")
	for _, want := range []string{"A1", "E2", "trace_FIM", "log10 D-opt"} {
		assert.Contains(t, out, want)
	}
}

func TestFactorialCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, base, "factorial")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Contains(t, lines[0], "CA[0]")
	assert.Contains(t, lines[0], "trace_FIM")
	assert.Equal(t, 4, strings.Count(out, "solved"))
	assert.Contains(t, out, "sensitivity of CA[0], T[0]")
	assert.Contains(t, out, "fixed: T[1]=300")
	assert.Contains(t, out, "(log10 D-opt)")

	unpinned := strings.Replace(base, `{"T[1]": 300}`, "{}", 1)
	_, err = run(t, unpinned, "factorial")
	require.ErrorIs(t, err, doe.ErrFigurePartition)
}

func TestOptimizeCommand_ResultsFile(t *testing.T) {
	t.Parallel()

	results := filepath.Join(t.TempDir(), "results.json")
	out, err := run(t, base+"results_file: "+results+"\n", "optimize")
	require.NoError(t, err)
	assert.Contains(t, out, "status")
	assert.Contains(t, out, results)

	data, err := os.ReadFile(results)
	require.NoError(t, err)
	var r doe.Results
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, "reactor", r.Model)
	assert.Equal(t, []string{"CA[0]", "T[0]", "T[1]"}, r.DesignNames)
	require.Len(t, r.FIM, 4)
	for _, name := range r.DesignNames {
		assert.GreaterOrEqual(t, r.Design[name], 1.0)
	}
	assert.LessOrEqual(t, r.Design["CA[0]"], 5.0)
}

func TestCommand_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := run(t, "design:\n  objective: E\n", "fim")
	require.ErrorIs(t, err, oed.ErrConfiguration)

	_, err = run(t, "logging:\n  level: error\nfactorial:\n  design_ranges: {}\n", "factorial")
	require.ErrorIs(t, err, doe.ErrBadRange)

	_, err = run(t, base, "fim", "extra")
	require.Error(t, err)
}
