package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gtheme/gtheme/internal/desktop"
	"github.com/gtheme/gtheme/internal/engine"
	"github.com/gtheme/gtheme/internal/pattern"
	"github.com/gtheme/gtheme/internal/postscript"
	"github.com/gtheme/gtheme/internal/theme"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitUserError = 1
	ExitIOError   = 2
)

var errCurrentDesktop = errors.New("cannot remove the current desktop")

// usageError marks malformed invocations.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

var userErrors = []error{
	theme.ErrNotFound,
	theme.ErrExists,
	desktop.ErrNotFound,
	desktop.ErrExists,
	pattern.ErrNotFound,
	postscript.ErrNotFound,
	engine.ErrNoCurrentDesktop,
	engine.ErrNoTheme,
	errCurrentDesktop,
}

// ExitCode maps an error returned by a command to the process exit code:
// 1 for unknown names, missing state and usage errors, 2 for everything
// else, which is I/O or parse failures on required files.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var usage usageError
	if errors.As(err, &usage) {
		return ExitUserError
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return ExitUserError
		}
	}
	// cobra reports unknown subcommands with a plain error.
	if strings.HasPrefix(err.Error(), "unknown command") {
		return ExitUserError
	}
	return ExitIOError
}
