package turbo

import (
	"context"
	"errors"
	"testing"

	"github.com/jakoblorz/turbo-projects/internal/models"
	"github.com/stretchr/testify/require"
)

const listing = `{
  "packageManager": "pnpm",
  "packages": {
    "count": 2,
    "items": [
      {"name": "@x/a", "path": "./a"},
      {"name": "@x/b", "path": "./b"}
    ]
  }
}`

func TestScanner_Scan(t *testing.T) {
	runner := NewMockRunner().OnStdout(listing, "turbo@2.0.0", "ls", "--output=json")

	packages, err := NewScanner(runner, "/repo", "").Scan(context.Background(), "2.0.0")
	require.NoError(t, err)
	require.Equal(t, []models.WorkspacePackage{
		{Name: "@x/a", Path: "./a"},
		{Name: "@x/b", Path: "./b"},
	}, packages)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "/repo", calls[0].Dir)
}

func TestScanner_ScanWithBanner(t *testing.T) {
	stdout := "Need to install the following packages:\nturbo@2.0.0\nOk to proceed? (y)\n" + listing + "\n"
	runner := NewMockRunner().OnStdout(stdout, "turbo@2.0.0", "ls", "--output=json")

	packages, err := NewScanner(runner, "/repo", "turbo").Scan(context.Background(), "2.0.0")
	require.NoError(t, err)
	require.Len(t, packages, 2)
	require.Equal(t, "./b", packages[1].Path)
}

func TestScanner_NonZeroExit(t *testing.T) {
	runner := NewMockRunner().On(&Result{ExitCode: 1, Stderr: []byte("boom")}, "turbo@2.0.0", "ls", "--output=json")

	_, err := NewScanner(runner, "/repo", "").Scan(context.Background(), "2.0.0")
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, 1, execErr.ExitCode)
}

func TestScanner_NoJSON(t *testing.T) {
	runner := NewMockRunner().OnStdout("no json here", "turbo@2.0.0", "ls", "--output=json")

	_, err := NewScanner(runner, "/repo", "").Scan(context.Background(), "2.0.0")

	var outputErr *InvalidOutputError
	require.ErrorAs(t, err, &outputErr)
	require.Equal(t, "no json here", outputErr.Output)
}

func TestScanner_RetrievalErrors(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
	}{
		{name: "unparseable span", stdout: "{ this is { not json }"},
		{name: "missing packages", stdout: `{"packageManager": "npm"}`},
		{name: "items not a list", stdout: `{"packages": {"items": {}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewMockRunner().OnStdout(tt.stdout, "turbo@2.0.0", "ls", "--output=json")

			_, err := NewScanner(runner, "/repo", "").Scan(context.Background(), "2.0.0")

			var retrievalErr *RetrievalError
			require.ErrorAs(t, err, &retrievalErr)
			require.Contains(t, err.Error(), "failed to get packages")
		})
	}
}

func TestScanner_RunnerFailure(t *testing.T) {
	startErr := errors.New("npx: command not found")
	runner := NewMockRunner().OnError(startErr, "turbo@2.0.0", "ls", "--output=json")

	_, err := NewScanner(runner, "/repo", "").Scan(context.Background(), "2.0.0")

	var retrievalErr *RetrievalError
	require.ErrorAs(t, err, &retrievalErr)
	require.ErrorIs(t, err, startErr)
}

func TestScanner_EmptyWorkspace(t *testing.T) {
	runner := NewMockRunner().OnStdout(`{"packages": {"count": 0, "items": []}}`, "turbo@2.0.0", "ls", "--output=json")

	packages, err := NewScanner(runner, "/repo", "").Scan(context.Background(), "2.0.0")
	require.NoError(t, err)
	require.Empty(t, packages)
}

func TestScanner_Probe(t *testing.T) {
	runner := NewMockRunner().
		OnStdout("2.0.0\n", "turbo@2.0.0", "--version").
		On(&Result{ExitCode: 127, Stderr: []byte("not found")}, "turbo@9.9.9", "--version")

	scanner := NewScanner(runner, "/repo", "")
	require.NoError(t, scanner.Probe(context.Background(), "2.0.0"))

	err := scanner.Probe(context.Background(), "9.9.9")
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, 127, execErr.ExitCode)
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
		ok     bool
	}{
		{name: "plain", output: `{"a":1}`, want: `{"a":1}`, ok: true},
		{name: "surrounded", output: "banner\n{\"a\":{\"b\":2}}\ntrailer", want: `{"a":{"b":2}}`, ok: true},
		{name: "first to last brace", output: `x {"a":1} y {"b":2} z`, want: `{"a":1} y {"b":2}`, ok: true},
		{name: "none", output: "no json here", ok: false},
		{name: "reversed", output: "} before {", ok: false},
		{name: "empty", output: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.output)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
