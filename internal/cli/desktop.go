package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gtheme/gtheme/internal/desktop"
	"github.com/gtheme/gtheme/internal/engine"
	"github.com/gtheme/gtheme/internal/procs"
)

func newDesktopCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "desktop",
		Aliases: []string{"desktops"},
		Short:   "Manage installed desktops",
	}
	cmd.AddCommand(
		newDesktopListCmd(a),
		newDesktopAddCmd(a),
		newDesktopRemoveCmd(a),
		newDesktopSkeletonCmd(a),
		newDesktopInfoCmd(a),
		newDesktopStatusCmd(a),
		newDesktopSetDefaultCmd(a),
		newDesktopEditCmd(a),
	)
	return cmd
}

func newDesktopListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed desktops",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := NewTable("", "DESKTOP", "PATH")
			for _, ref := range a.eng.Desktops.List() {
				table.AddRow(marker(a.eng.IsActive(engine.DesktopItem(ref), nil)), ref.Name, ref.Path)
			}
			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	}
}

func newDesktopAddCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Install a desktop from a directory or archive",
		Long: `Install a desktop from a directory or archive.

Supported archives are .tar.gz, .tgz, .tar.xz, .txz, .tar.bz2 and .zip. The
desktop is named after the directory, or after the archive's single
top-level directory.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.eng.Desktops.Add(args[0], force)
			if err != nil {
				return err
			}
			a.printf(cmd.OutOrStdout(), "Added desktop %s at %s\n", ref.Name, ref.Path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing desktop of the same name")
	return cmd
}

func newDesktopRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove an installed desktop",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.eng.Desktops.ByName(args[0])
			if err != nil {
				return err
			}
			if a.eng.IsActive(engine.DesktopItem(ref), nil) {
				return fmt.Errorf("%w: %s", errCurrentDesktop, ref.Name)
			}
			if err := a.eng.Desktops.Remove(ref); err != nil {
				return err
			}
			a.printf(cmd.OutOrStdout(), "Removed desktop %s\n", ref.Name)
			return nil
		},
	}
}

func newDesktopSkeletonCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new-skeleton <name>",
		Short: "Create an empty desktop",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.eng.Desktops.NewSkeleton(args[0])
			if err != nil {
				return err
			}
			a.printf(cmd.OutOrStdout(), "Created desktop %s at %s\n", ref.Name, ref.Path)
			return nil
		},
	}
}

func newDesktopInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info [name]",
		Short: "Show a desktop's metadata",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.desktopNamed(args)
			if err != nil {
				return err
			}
			info := desktop.LoadInfo(d.Path, a.logger)
			cfg := a.eng.DesktopConfig(d)
			defaultTheme, _ := cfg.DefaultTheme()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Desktop:       %s\n", d.Name)
			fmt.Fprintf(out, "Path:          %s\n", d.Path)
			fmt.Fprintf(out, "Author:        %s\n", orNone(info.Author))
			fmt.Fprintf(out, "Description:   %s\n", orNone(info.Description))
			fmt.Fprintf(out, "Credits:       %s\n", orNone(info.Credits))
			fmt.Fprintf(out, "Dependencies:  %s\n", orNone(strings.Join(info.Dependencies, ", ")))
			fmt.Fprintf(out, "Default theme: %s\n", orNone(defaultTheme))
			fmt.Fprintf(out, "Patterns:      %d (%d files)\n", len(d.Tree), len(d.Patterns()))
			fmt.Fprintf(out, "Post-scripts:  %d\n", len(d.Scripts.PostScripts()))
			fmt.Fprintf(out, "Extras:        %d\n", len(d.Scripts.Extras()))
			return nil
		},
	}
}

func newDesktopStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status [name]",
		Short: "Show which of a desktop's dependencies are running",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.desktopNamed(args)
			if err != nil {
				return err
			}
			info := desktop.LoadInfo(d.Path, a.logger)
			if len(info.Dependencies) == 0 {
				a.printf(cmd.OutOrStdout(), "Desktop %s declares no dependencies\n", d.Name)
				return nil
			}

			statuses, err := procs.NewChecker(nil).Check(info.Dependencies)
			if err != nil {
				return err
			}
			table := NewTable("DEPENDENCY", "STATUS", "PIDS")
			for _, s := range statuses {
				state := "stopped"
				if s.Running {
					state = "running"
				}
				pids := make([]string, len(s.PIDs))
				for i, pid := range s.PIDs {
					pids[i] = strconv.Itoa(pid)
				}
				table.AddRow(s.Name, state, strings.Join(pids, ","))
			}
			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	}
}

func newDesktopSetDefaultCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-default <theme>",
		Short: "Set the theme applied when the desktop is installed",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.desktop()
			if err != nil {
				return err
			}
			ref, err := a.eng.Themes.ByName(args[0])
			if err != nil {
				return err
			}
			cfg := a.eng.DesktopConfig(d)
			cfg.SetDefaultTheme(ref.Name)
			if err := cfg.Save(); err != nil {
				return err
			}
			a.printf(cmd.OutOrStdout(), "Default theme of %s is now %s\n", d.Name, ref.Name)
			return nil
		},
	}
}

func newDesktopEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [name]",
		Short: "Open a desktop in the file explorer",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.desktopNamed(args)
			if err != nil {
				return err
			}
			return a.openExplorer(cmd, d.Path)
		},
	}
}

func marker(on bool) string {
	if on {
		return "*"
	}
	return ""
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
