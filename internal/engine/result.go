package engine

import (
	"errors"
)

// Failure is a non-fatal error met while applying a pattern, post-script or
// extra.
type Failure struct {
	Name string
	Err  error
}

// Result summarises one application.
type Result struct {
	Desktop string
	Theme   string
	DryRun  bool

	// Written lists output files in the order they were written (or would
	// have been, on a dry run).
	Written []string

	// Installed lists the dotfiles and fonts a desktop installation copied
	// into the user's directories.
	Installed []string

	// Skipped lists the deactivated patterns and modules.
	Skipped []string

	// Ran lists the post-scripts and extras invoked, in order.
	Ran []string

	Failures []Failure

	// RebootRequired is set when a desktop was installed with no previous
	// desktop to hand over from.
	RebootRequired bool
}

func (r *Result) fail(name string, err error) {
	r.Failures = append(r.Failures, Failure{Name: name, Err: err})
}

// Err joins every recorded failure, or returns nil when there was none.
func (r *Result) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}
