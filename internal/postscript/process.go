package postscript

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// ProcessRunner defines an interface for running external processes.
// This abstraction allows for dependency injection and easier testing.
type ProcessRunner interface {
	// Run executes path with args and env, waits for it and returns its output.
	Run(ctx context.Context, path string, args, env []string) (stdout, stderr []byte, err error)

	// Start launches path without waiting. done, when non-nil, receives the
	// exit error once the process has been reaped.
	Start(path string, args, env []string, done func(stdout, stderr []byte, err error)) error
}

// ExecProcessRunner implements ProcessRunner using os/exec.
type ExecProcessRunner struct{}

// NewExecProcessRunner creates a new os/exec backed runner.
func NewExecProcessRunner() *ExecProcessRunner {
	return &ExecProcessRunner{}
}

// Run executes a real external process.
func (r *ExecProcessRunner) Run(ctx context.Context, path string, args, env []string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, path, args...) // #nosec G204 - desktop scripts are user provided executables
	cmd.Env = env

	stdout, err := cmd.Output()
	if err != nil {
		// Output() returns stderr in the error if it's an ExitError
		exitErr := &exec.ExitError{}
		if errors.As(err, &exitErr) {
			return stdout, exitErr.Stderr, err
		}
		return stdout, nil, err
	}

	return stdout, nil, nil
}

// Start launches a real external process and reaps it in the background.
func (r *ExecProcessRunner) Start(path string, args, env []string, done func(stdout, stderr []byte, err error)) error {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(path, args...) // #nosec G204 - desktop scripts are user provided executables
	cmd.Env = env
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return err
	}

	go func() {
		err := cmd.Wait()
		if done != nil {
			done(stdout.Bytes(), stderr.Bytes(), err)
		}
	}()
	return nil
}
