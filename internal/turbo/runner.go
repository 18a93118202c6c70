package turbo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultRunner is the executable used to run a version-pinned tool.
const DefaultRunner = "npx"

// Result is the outcome of a finished process.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner starts external processes.
//
// A process that runs and exits non-zero is not an error: Run returns its
// Result. An error means the process could not be run at all.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (*Result, error)
}

// OSRunner implements Runner by executing a fixed program, e.g. npx.
type OSRunner struct {
	program string
	prefix  []string
}

// NewOSRunner creates a runner executing program; an empty program means DefaultRunner.
// A program with arguments, e.g. "pnpm dlx", runs its arguments before the ones passed to Run.
func NewOSRunner(program string) *OSRunner {
	fields := strings.Fields(program)
	if len(fields) == 0 {
		fields = []string{DefaultRunner}
	}
	return &OSRunner{program: strings.Join(fields, " "), prefix: fields}
}

// Program returns the executable this runner invokes.
func (r *OSRunner) Program() string {
	return r.program
}

func (r *OSRunner) Run(ctx context.Context, dir string, args ...string) (*Result, error) {
	argv := append(append([]string{}, r.prefix[1:]...), args...)
	cmd := exec.CommandContext(ctx, r.prefix[0], argv...)
	cmd.Dir = dir

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr) && exitErr.ExitCode() >= 0:
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	default:
		return nil, fmt.Errorf("failed to run %s: %w", r.program, err)
	}
}
