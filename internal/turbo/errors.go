package turbo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrToolNotInstalled is returned when the workspace does not declare the tool.
	ErrToolNotInstalled = errors.New("Repo does not have Turborepo installed")
)

// ExecutionError is returned when the tool exits with a non-zero status.
type ExecutionError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", strings.Join(e.Args, " "), e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// InvalidOutputError is returned when the tool output holds no JSON object.
type InvalidOutputError struct {
	Output string
}

func (e *InvalidOutputError) Error() string {
	return "invalid turbo output: no JSON object found"
}

// RetrievalError wraps any other failure while listing workspace packages.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("failed to get packages: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }
