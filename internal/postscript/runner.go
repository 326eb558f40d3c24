package postscript

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Runner invokes scripts with the process environment extended by the user
// settings.
type Runner struct {
	proc    ProcessRunner
	environ func() []string
	logger  hclog.Logger
}

// NewRunner creates a Runner. environ returns the KEY=VALUE pairs appended to
// the process environment for each invocation; it may be nil.
func NewRunner(proc ProcessRunner, environ func() []string, logger hclog.Logger) *Runner {
	if proc == nil {
		proc = NewExecProcessRunner()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Runner{proc: proc, environ: environ, logger: logger.Named("scripts")}
}

func (r *Runner) env() []string {
	env := os.Environ()
	if r.environ != nil {
		env = append(env, r.environ()...)
	}
	return env
}

// Run executes s with args and waits for it. A non-zero exit is reported
// with the script's stderr.
func (r *Runner) Run(ctx context.Context, s Script, args ...string) error {
	r.logger.Info("executing post-script", "script", s.Name)
	r.logger.Debug("post-script arguments", "script", s.Name, "args", args)

	stdout, stderr, err := r.proc.Run(ctx, s.Path, args, r.env())
	r.logOutput(s, stdout, stderr)
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return fmt.Errorf("post-script %q failed: %w: %s", s.Name, err, msg)
		}
		return fmt.Errorf("post-script %q failed: %w", s.Name, err)
	}
	return nil
}

// Start launches s without waiting for it to finish. Failures after the
// process has started are logged.
func (r *Runner) Start(s Script, args ...string) error {
	r.logger.Info("executing extra", "extra", s.Name)
	r.logger.Debug("extra arguments", "extra", s.Name, "args", args)

	err := r.proc.Start(s.Path, args, r.env(), func(stdout, stderr []byte, err error) {
		r.logOutput(s, stdout, stderr)
		if err != nil {
			r.logger.Error("extra failed", "extra", s.Name, "error", err, "stderr", strings.TrimSpace(string(stderr)))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start extra %q: %w", s.Name, err)
	}
	return nil
}

func (r *Runner) logOutput(s Script, stdout, stderr []byte) {
	if len(stdout) > 0 {
		r.logger.Debug("script stdout", "script", s.Name, "output", strings.TrimSpace(string(stdout)))
	}
	if len(stderr) > 0 {
		r.logger.Debug("script stderr", "script", s.Name, "output", strings.TrimSpace(string(stderr)))
	}
}
