package actions

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_WorkflowCommands(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(&out, WithWorkflowCommands(true))

	logger.StartGroup("docker")
	logger.Info("web (./apps/web)")
	logger.EndGroup()
	logger.Warning("%s", "Failed to restore cache: 50% done\nretry")
	logger.Debug("details")
	logger.SetFailed(errors.New("boom"))

	require.Equal(t, "::group::docker\n"+
		"web (./apps/web)\n"+
		"::endgroup::\n"+
		"::warning::Failed to restore cache: 50%25 done%0Aretry\n"+
		"::debug::details\n"+
		"::error::boom\n", out.String())
}

func TestLogger_Local(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(&out)

	logger.StartGroup("docker")
	logger.Info("web")
	logger.EndGroup()
	logger.Info("done")
	logger.Debug("hidden")
	logger.Warning("careful")

	text := out.String()
	require.Contains(t, text, "docker")
	require.Contains(t, text, "  web\n")
	require.Contains(t, text, "\ndone\n")
	require.Contains(t, text, "careful")
	require.NotContains(t, text, "hidden")
	require.NotContains(t, text, "::")
}

func TestLogger_SetOutputToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "github_output")

	logger := NewLogger(&bytes.Buffer{}, WithOutputFile(outputFile))
	require.NoError(t, logger.SetOutput("projects", `{"docker":[]}`))
	require.NoError(t, logger.SetOutput("count", "1"))

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^projects<<(\S+)\n\{"docker":\[\]\}\n(\S+)\ncount<<`)
	m := pattern.FindStringSubmatch(string(data))
	require.NotNil(t, m, "unexpected output file:\n%s", data)
	require.Equal(t, m[1], m[2])
}

func TestLogger_SetOutputToResultWriter(t *testing.T) {
	var log, result bytes.Buffer
	logger := NewLogger(&log, WithResultWriter(&result))

	require.NoError(t, logger.SetOutput("projects", `{}`))
	require.Equal(t, "{}\n", result.String())
	require.Empty(t, log.String())
}

func TestEnvOptions(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "out")
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_OUTPUT", outputFile)
	t.Setenv("RUNNER_DEBUG", "1")

	var out bytes.Buffer
	logger := NewLogger(&out, EnvOptions()...)
	logger.Warning("w")
	require.NoError(t, logger.SetOutput("projects", "{}"))

	require.Equal(t, "::warning::w\n", out.String())
	require.FileExists(t, outputFile)
}
