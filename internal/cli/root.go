// Package cli provides the command-line interface for gtheme.
package cli

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/gtheme/gtheme/internal/desktop"
	"github.com/gtheme/gtheme/internal/engine"
	"github.com/gtheme/gtheme/internal/logging"
	"github.com/gtheme/gtheme/internal/options"
	"github.com/gtheme/gtheme/internal/postscript"
	"github.com/gtheme/gtheme/internal/version"
)

// app carries the state shared by every command of one invocation.
type app struct {
	proc    postscript.ProcessRunner
	opts    *options.Options
	logger  hclog.Logger
	eng     *engine.Engine
	verbose bool
	quiet   bool
}

// NewRootCmd builds the gtheme command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

func newRootCmd(proc postscript.ProcessRunner) *cobra.Command {
	a := &app{proc: proc}

	root := &cobra.Command{
		Use:   "gtheme",
		Short: "Apply colour themes to desktop configurations",
		Long: `gtheme manages colour themes and applies them to desktops.

A theme is a named palette. A desktop is a collection of pattern templates,
each naming the file it renders to, plus hook scripts run after patterns are
written. Applying a theme fills every active pattern of the current desktop
with the theme's colours.`,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.init(cmd) },
	}

	pf := root.PersistentFlags()
	pf.String(options.KeyHome, "", "gtheme home directory (default ~/.config/gtheme)")
	pf.String(options.KeyLogLevel, "info", "log level (trace, debug, info, warn, error)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	pf.StringP(options.KeyDesktop, "d", "", "desktop to operate on (default: the current desktop)")

	root.SetVersionTemplate(version.String() + "\n")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	root.AddCommand(
		newApplyCmd(a),
		newDesktopCmd(a),
		newThemeCmd(a),
		newPatternCmd(a),
		newExtraCmd(a),
		newFavCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.opts = options.New(cmd.Root().PersistentFlags())
	a.logger = logging.New(logging.Options{
		Level:   a.opts.LogLevel(),
		Verbose: a.verbose,
		Quiet:   a.quiet,
		Output:  cmd.ErrOrStderr(),
	})
	a.eng = engine.New(a.opts.Layout(), a.proc, a.logger)
	a.logger.Debug("gtheme home", "path", a.eng.Layout.Root)
	return nil
}

// desktop returns the desktop selected with --desktop, or the current one.
func (a *app) desktop() (*desktop.Desktop, error) {
	if name := a.opts.Desktop(); name != "" {
		return a.eng.LoadDesktop(name)
	}
	return a.eng.CurrentDesktop()
}

// desktopNamed resolves an optional positional desktop name, falling back
// to desktop().
func (a *app) desktopNamed(args []string) (*desktop.Desktop, error) {
	if len(args) > 0 {
		return a.eng.LoadDesktop(args[0])
	}
	return a.desktop()
}

// printf writes to stdout unless --quiet was given.
func (a *app) printf(w io.Writer, format string, args ...any) {
	if a.quiet {
		return
	}
	fmt.Fprintf(w, format, args...)
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	cmd := NewRootCmd()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return ExitCode(err)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
