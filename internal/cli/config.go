package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user settings passed to post-scripts",
		Long: `Manage user settings.

Settings are string properties stored in user_settings.toml. Every property
is exported to post-scripts and extras as an environment variable and can be
referenced from patterns as %name%.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print every setting",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := NewTable("KEY", "VALUE")
			for _, k := range a.eng.Settings.Keys() {
				v, _ := a.eng.Settings.Get(k)
				table.AddRow(k, v)
			}
			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.eng.Settings.Set(args[0], args[1])
			return a.eng.Settings.Save()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a setting",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.eng.Settings.Unset(args[0]) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s is not set\n", args[0])
				return nil
			}
			return a.eng.Settings.Save()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Open the settings file in the editor",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.eng.Settings.Exists() {
				if err := a.eng.Settings.Save(); err != nil {
					return err
				}
			}
			return a.openEditor(cmd, a.eng.Settings.Path())
		},
	})

	return cmd
}
