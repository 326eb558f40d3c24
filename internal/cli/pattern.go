package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gtheme/gtheme/internal/desktop"
	"github.com/gtheme/gtheme/internal/engine"
	"github.com/gtheme/gtheme/internal/pattern"
	"github.com/gtheme/gtheme/internal/watch"
)

func newPatternCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pattern",
		Aliases: []string{"patterns"},
		Short:   "Manage the patterns of a desktop",
		Long: `Manage the patterns of a desktop.

Commands act on the current desktop unless --desktop is given. A module is a
directory of patterns that is activated and inverted as one.`,
	}
	cmd.AddCommand(
		newPatternListCmd(a),
		newPatternEditCmd(a),
		newPatternSwitchCmd(a, "enable", "Activate patterns", func(c *desktop.Config, name string) bool {
			c.EnablePattern(name)
			return true
		}),
		newPatternSwitchCmd(a, "disable", "Deactivate patterns", func(c *desktop.Config, name string) bool {
			c.DisablePattern(name)
			return false
		}),
		newPatternSwitchCmd(a, "toggle", "Flip the activation of patterns", (*desktop.Config).TogglePattern),
		newPatternInvertCmd(a),
		newPatternWatchCmd(a),
	)
	return cmd
}

func newPatternListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the pattern tree with its activation state",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.desktop()
			if err != nil {
				return err
			}
			cfg := a.eng.DesktopConfig(d)
			printTree(cmd.OutOrStdout(), d.Tree, cfg, func(ref pattern.Ref) bool {
				return a.eng.IsActive(engine.PatternItem(ref), cfg)
			})
			return nil
		},
	}
}

// printTree writes one line per pattern: "[x]" for active top-level entries
// and "(inverted)" when inversion is set, with module members indented.
func printTree(w io.Writer, tree []pattern.Ref, cfg *desktop.Config, active func(pattern.Ref) bool) {
	for _, top := range tree {
		box := "[ ]"
		if active(top) {
			box = "[x]"
		}
		suffix := ""
		if top.Module {
			suffix = "/"
		}
		if cfg.IsInverted(top.Name) {
			suffix += " (inverted)"
		}
		fmt.Fprintf(w, "%s %s%s\n", box, top.Name, suffix)
		printChildren(w, top.Children, "    ")
	}
}

func printChildren(w io.Writer, refs []pattern.Ref, indent string) {
	for _, r := range refs {
		name := r.Name
		if r.Module {
			name += "/"
		}
		fmt.Fprintf(w, "%s- %s\n", indent, name)
		printChildren(w, r.Children, indent+"  ")
	}
}

func newPatternEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <pattern>",
		Short: "Open a pattern in the editor, or a module in the file explorer",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.desktop()
			if err != nil {
				return err
			}
			ref, err := d.Pattern(args[0])
			if err != nil {
				return err
			}
			if ref.Module {
				return a.openExplorer(cmd, ref.Path)
			}
			return a.openEditor(cmd, ref.Path)
		},
	}
}

// newPatternSwitchCmd builds enable, disable and toggle, which differ only
// in the mutation applied to each named pattern.
func newPatternSwitchCmd(a *app, use, short string, apply func(*desktop.Config, string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <pattern>...",
		Short: short,
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.desktop()
			if err != nil {
				return err
			}
			refs, err := resolvePatterns(d, args)
			if err != nil {
				return err
			}
			cfg := a.eng.DesktopConfig(d)
			for _, ref := range refs {
				state := apply(cfg, ref.Name)
				a.printf(cmd.OutOrStdout(), "%s: %s\n", ref.Name, activeWord(state))
			}
			return cfg.Save()
		},
	}
}

func newPatternInvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "invert <pattern>...",
		Short: "Flip the stored inversion of patterns",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.desktop()
			if err != nil {
				return err
			}
			refs, err := resolvePatterns(d, args)
			if err != nil {
				return err
			}
			cfg := a.eng.DesktopConfig(d)
			for _, ref := range refs {
				word := "not inverted"
				if cfg.ToggleInvertPattern(ref.Name) {
					word = "inverted"
				}
				a.printf(cmd.OutOrStdout(), "%s: %s\n", ref.Name, word)
			}
			return cfg.Save()
		},
	}
}

func newPatternWatchCmd(a *app) *cobra.Command {
	var themeName string
	cmd := &cobra.Command{
		Use:   "watch [pattern]...",
		Short: "Re-apply patterns whenever their files are saved",
		Long: `Re-apply patterns whenever their files are saved.

Watches the named patterns, or every active pattern, and fills the changed
pattern with the theme each time its content changes. The theme defaults to
the current theme and is not recorded. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.desktop()
			if err != nil {
				return err
			}

			var tops []pattern.Ref
			if len(args) > 0 {
				if tops, err = resolvePatterns(d, args); err != nil {
					return err
				}
			} else {
				cfg := a.eng.DesktopConfig(d)
				for _, ref := range d.Tree {
					if cfg.IsActive(ref.Name) {
						tops = append(tops, ref)
					}
				}
			}

			groups := make(map[string]string)
			var files []string
			for _, ref := range pattern.Flatten(tops) {
				abs, err := filepath.Abs(ref.Path)
				if err != nil {
					return fmt.Errorf("failed to resolve %s: %w", ref.Path, err)
				}
				groups[abs] = ref.Group
				files = append(files, abs)
			}
			if len(files) == 0 {
				return fmt.Errorf("%w: no active patterns to watch", pattern.ErrNotFound)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.printf(cmd.OutOrStdout(), "Watching %d pattern files of %s\n", len(files), d.Name)
			return watch.New(0, a.logger).Run(ctx, files, func(path string) {
				group, ok := groups[path]
				if !ok {
					return
				}
				res, err := a.eng.ApplyTheme(ctx, engine.ThemeRequest{Theme: themeName, Patterns: []string{group}})
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", group, err)
					return
				}
				a.report(cmd, res)
			})
		},
	}
	cmd.Flags().StringVarP(&themeName, "theme", "t", "", "theme to fill with (default: the current theme)")
	return cmd
}

// resolvePatterns maps names to top-level patterns or modules of d.
func resolvePatterns(d *desktop.Desktop, names []string) ([]pattern.Ref, error) {
	refs := make([]pattern.Ref, 0, len(names))
	for _, name := range names {
		ref, err := d.Pattern(name)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func activeWord(active bool) string {
	if active {
		return "enabled"
	}
	return "disabled"
}
