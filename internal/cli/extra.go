package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gtheme/gtheme/internal/desktop"
	"github.com/gtheme/gtheme/internal/engine"
	"github.com/gtheme/gtheme/internal/postscript"
	"github.com/gtheme/gtheme/internal/theme"
)

func newExtraCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "extra",
		Aliases: []string{"extras"},
		Short:   "Manage the extras of a desktop",
		Long: `Manage the extras of a desktop.

Extras are scripts started, without waiting, after every theme application.
Each receives the arguments the applied theme lists for it.`,
	}
	cmd.AddCommand(
		newExtraListCmd(a),
		newExtraSwitchCmd(a, "enable", "Activate extras", func(c *desktop.Config, name string) bool {
			c.EnableExtra(name)
			return true
		}),
		newExtraSwitchCmd(a, "disable", "Deactivate extras", func(c *desktop.Config, name string) bool {
			c.DisableExtra(name)
			return false
		}),
		newExtraSwitchCmd(a, "toggle", "Flip the activation of extras", (*desktop.Config).ToggleExtra),
		newExtraEditCmd(a),
	)
	return cmd
}

func newExtraListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List extras with their activation state",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.desktop()
			if err != nil {
				return err
			}
			cfg := a.eng.DesktopConfig(d)

			var th *theme.Theme
			if name, ok := a.eng.Global.CurrentTheme(); ok {
				if ref, err := a.eng.Themes.ByName(name); err == nil {
					th = a.eng.Themes.Load(ref)
				}
			}

			table := NewTable("", "EXTRA", "ARGS")
			for _, s := range d.Scripts.Extras() {
				extraArgs := ""
				if th != nil {
					extraArgs = strings.Join(th.ExtraArgs(s.Name), " ")
				}
				table.AddRow(marker(a.eng.IsActive(engine.ExtraItem(s), cfg)), s.Name, extraArgs)
			}
			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	}
}

func newExtraSwitchCmd(a *app, use, short string, apply func(*desktop.Config, string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <extra>...",
		Short: short,
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.desktop()
			if err != nil {
				return err
			}
			scripts, err := resolveExtras(d, args)
			if err != nil {
				return err
			}
			cfg := a.eng.DesktopConfig(d)
			for _, s := range scripts {
				a.printf(cmd.OutOrStdout(), "%s: %s\n", s.Name, activeWord(apply(cfg, s.Name)))
			}
			return cfg.Save()
		},
	}
}

func newExtraEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <extra>",
		Short: "Open an extra in the editor",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.desktop()
			if err != nil {
				return err
			}
			s, err := d.Extra(args[0])
			if err != nil {
				return err
			}
			return a.openEditor(cmd, s.Path)
		},
	}
}

func resolveExtras(d *desktop.Desktop, names []string) ([]postscript.Script, error) {
	scripts := make([]postscript.Script, 0, len(names))
	for _, name := range names {
		s, err := d.Extra(name)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}
