package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: passing
description: Midpoint of a ramp
run_id: test-run-passing
tabulations:
  ramp:
    x: [0, 1]
    y: [0, 2]
steps:
  - op: evaluate
    target: ramp
    at: 0.5
    expect: {value: 1}
`

const failingScenario = `name: failing
description: Wrong expectation
run_id: test-run-failing
tabulations:
  ramp:
    x: [0, 1]
    y: [0, 2]
steps:
  - op: evaluate
    target: ramp
    at: 0.5
    expect: {value: 3}
`

func writeScenario(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func runTestCommand(t *testing.T, rootOpts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := runTestCommand(t, &RootOptions{Format: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := runTestCommand(t, &RootOptions{Format: "text"}, "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := runTestCommand(t, &RootOptions{Format: "text"}, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, err := runTestCommand(t, &RootOptions{Format: "json"}, t.TempDir())
	require.NoError(t, err)

	resp := decode[TestResult](t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Data.Total)
	assert.Empty(t, resp.Data.Scenarios)
}

func TestTestCommandPassing(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "passing.yaml", passingScenario)

	out, err := runTestCommand(t, &RootOptions{Format: "text"}, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ passing")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommandFailing(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "passing.yaml", passingScenario)
	writeScenario(t, dir, "failing.yaml", failingScenario)

	out, err := runTestCommand(t, &RootOptions{Format: "text"}, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandFailingJSON(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "failing.yaml", failingScenario)

	out, err := runTestCommand(t, &RootOptions{Format: "json"}, dir)
	require.Error(t, err)

	resp := decode[TestResult](t, out)
	assert.Equal(t, "error", resp.Status)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.False(t, resp.Data.Scenarios[0].Pass)
	assert.Equal(t, "test-run-failing", resp.Data.Scenarios[0].RunID)
	assert.NotEmpty(t, resp.Data.Scenarios[0].Errors)
}

func TestTestCommandFilter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "passing.yaml", passingScenario)
	writeScenario(t, dir, "failing.yaml", failingScenario)

	out, err := runTestCommand(t, &RootOptions{Format: "text"}, dir, "--filter", "pass*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
}

func TestTestCommandInvalidScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yaml", "name: broken\n")

	out, err := runTestCommand(t, &RootOptions{Format: "text"}, dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommandGoldenUpdateAndCompare(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "passing.yaml", passingScenario)
	opts := &RootOptions{Format: "text"}

	_, err := runTestCommand(t, opts, dir, "--update")
	require.NoError(t, err)
	goldenPath := filepath.Join(dir, "golden", "passing.golden")
	require.FileExists(t, goldenPath)

	_, err = runTestCommand(t, opts, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	out, err := runTestCommand(t, opts, dir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "golden", "b.golden"), goldenFilePath(filepath.Join("a", "b.yaml")))
}
