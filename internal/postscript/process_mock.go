package postscript

import (
	"context"
	"errors"
)

// Call records one invocation seen by MockProcessRunner.
type Call struct {
	Path     string
	Args     []string
	Env      []string
	Detached bool
}

// MockProcessRunner is a mock implementation of ProcessRunner for testing.
type MockProcessRunner struct {
	// RunFunc allows tests to provide custom behavior for both Run and Start.
	RunFunc func(ctx context.Context, path string, args, env []string) (stdout, stderr []byte, err error)

	// Calls lists every invocation in order.
	Calls []Call

	// CallCount tracks how many processes were run or started
	CallCount int

	// LastPath stores the last path passed to Run or Start
	LastPath string

	// LastArgs stores the last args passed to Run or Start
	LastArgs []string
}

// Run executes the mock behavior.
func (m *MockProcessRunner) Run(ctx context.Context, path string, args, env []string) ([]byte, []byte, error) {
	m.record(path, args, env, false)

	if m.RunFunc != nil {
		return m.RunFunc(ctx, path, args, env)
	}
	return nil, nil, nil
}

// Start records the call and completes it synchronously.
func (m *MockProcessRunner) Start(path string, args, env []string, done func(stdout, stderr []byte, err error)) error {
	m.record(path, args, env, true)

	var stdout, stderr []byte
	var err error
	if m.RunFunc != nil {
		stdout, stderr, err = m.RunFunc(context.Background(), path, args, env)
	}
	if done != nil {
		done(stdout, stderr, err)
	}
	return nil
}

func (m *MockProcessRunner) record(path string, args, env []string, detached bool) {
	m.CallCount++
	m.LastPath = path
	m.LastArgs = args
	m.Calls = append(m.Calls, Call{Path: path, Args: args, Env: env, Detached: detached})
}

// NewMockProcessRunner creates a new mock process runner.
func NewMockProcessRunner() *MockProcessRunner {
	return &MockProcessRunner{}
}

// NewErrorMockProcessRunner creates a mock whose processes all fail.
func NewErrorMockProcessRunner(errMsg string) *MockProcessRunner {
	return &MockProcessRunner{
		RunFunc: func(ctx context.Context, path string, args, env []string) ([]byte, []byte, error) {
			return nil, []byte(errMsg), errors.New(errMsg)
		},
	}
}
