package turbo

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockRunner implements Runner for testing with scripted responses.
type MockRunner struct {
	mu        sync.Mutex
	responses map[string]*Result
	errors    map[string]error
	calls     []MockCall
}

// MockCall records one Run invocation.
type MockCall struct {
	Dir  string
	Args []string
}

// NewMockRunner creates a MockRunner that fails every unscripted call.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		responses: make(map[string]*Result),
		errors:    make(map[string]error),
	}
}

// On scripts the result for the exact argument list.
func (m *MockRunner) On(result *Result, args ...string) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responses[strings.Join(args, " ")] = result
	return m
}

// OnError scripts a start failure for the exact argument list.
func (m *MockRunner) OnError(err error, args ...string) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errors[strings.Join(args, " ")] = err
	return m
}

// OnStdout scripts a successful run printing stdout.
func (m *MockRunner) OnStdout(stdout string, args ...string) *MockRunner {
	return m.On(&Result{Stdout: []byte(stdout)}, args...)
}

func (m *MockRunner) Run(ctx context.Context, dir string, args ...string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Dir: dir, Args: append([]string(nil), args...)})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := strings.Join(args, " ")
	if err, ok := m.errors[key]; ok {
		return nil, err
	}
	if result, ok := m.responses[key]; ok {
		return result, nil
	}

	return nil, fmt.Errorf("mock runner: no response scripted for %q", key)
}

// Calls returns the recorded invocations in order.
func (m *MockRunner) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]MockCall(nil), m.calls...)
}
