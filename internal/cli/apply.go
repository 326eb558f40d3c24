package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gtheme/gtheme/internal/engine"
)

type applyFlags struct {
	patterns []string
	invert   []string
	dryRun   bool
	theme    string
}

func (f *applyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.patterns, "pattern", "p", nil, "apply only these patterns (repeatable)")
	cmd.Flags().StringSliceVarP(&f.invert, "invert", "i", nil, "flip the stored inversion of these patterns for this run")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "fill patterns without writing files or running scripts")
}

// overridePatterns returns nil unless --pattern was given, so that an empty
// flag still means "use the stored activation".
func (f *applyFlags) overridePatterns(cmd *cobra.Command) []string {
	if !cmd.Flags().Changed("pattern") {
		return nil
	}
	if f.patterns == nil {
		return []string{}
	}
	return f.patterns
}

func newApplyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a theme or install a desktop",
	}
	cmd.AddCommand(newApplyThemeCmd(a), newApplyDesktopCmd(a))
	return cmd
}

func newApplyThemeCmd(a *app) *cobra.Command {
	var f applyFlags
	cmd := &cobra.Command{
		Use:   "theme <name>",
		Short: "Apply a theme to the current desktop",
		Long: `Apply a theme to the current desktop.

Every active pattern is filled with the theme's colours and written to its
output file, then the post-script of the same name runs with the output path.
With --pattern only the listed patterns are applied and the current theme is
not recorded.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.eng.ApplyTheme(cmd.Context(), engine.ThemeRequest{
				Theme:    args[0],
				Patterns: f.overridePatterns(cmd),
				Invert:   f.invert,
				DryRun:   f.dryRun,
			})
			if err != nil {
				return err
			}
			a.report(cmd, res)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newApplyDesktopCmd(a *app) *cobra.Command {
	var f applyFlags
	cmd := &cobra.Command{
		Use:   "desktop <name>",
		Short: "Install a desktop and apply a theme to it",
		Long: `Install a desktop and apply a theme to it.

The theme defaults to the desktop's default theme. The previous desktop's
pre-install script runs first and the new desktop's post-install script runs
after its patterns are written.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.eng.ApplyDesktop(cmd.Context(), engine.DesktopRequest{
				Desktop:  args[0],
				Theme:    f.theme,
				Patterns: f.overridePatterns(cmd),
				Invert:   f.invert,
				DryRun:   f.dryRun,
			})
			if err != nil {
				return err
			}
			a.report(cmd, res)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&f.theme, "theme", "t", "", "theme to apply instead of the desktop default")
	return cmd
}

// report prints what an application did. Failures go to stderr and do not
// change the exit code.
func (a *app) report(cmd *cobra.Command, res *engine.Result) {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	installVerb, verb := "installed", "wrote"
	if res.DryRun {
		installVerb, verb = "would install", "would write"
	}
	for _, p := range res.Installed {
		a.printf(out, "%s %s\n", installVerb, p)
	}
	for _, p := range res.Written {
		a.printf(out, "%s %s\n", verb, p)
	}
	for _, p := range res.Skipped {
		a.printf(out, "skipped %s (disabled)\n", p)
	}

	for _, f := range res.Failures {
		fmt.Fprintf(errOut, "warning: %s: %v\n", f.Name, f.Err)
	}

	prefix := "Applied"
	if res.DryRun {
		prefix = "Dry run: would apply"
	}
	a.printf(out, "%s theme %s to desktop %s (%d written, %d skipped, %d failed)\n",
		prefix, res.Theme, res.Desktop, len(res.Written), len(res.Skipped), len(res.Failures))

	if res.RebootRequired {
		fmt.Fprintln(errOut, "warning: this is the first desktop installed, reboot for every change to take effect")
	}
}
