package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gtheme/gtheme/internal/engine"
	"github.com/gtheme/gtheme/internal/image"
	"github.com/gtheme/gtheme/internal/paths"
	"github.com/gtheme/gtheme/internal/theme"
)

func newThemeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "theme",
		Aliases: []string{"themes"},
		Short:   "Manage themes",
	}
	cmd.AddCommand(
		newThemeListCmd(a),
		newThemeColorsCmd(a),
		newThemeInfoCmd(a),
		newThemeSkeletonCmd(a),
		newThemeRemoveCmd(a),
		newThemeEditCmd(a),
	)
	return cmd
}

func newThemeListCmd(a *app) *cobra.Command {
	var favsOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List themes",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := NewTable("", "THEME", "FAV")
			for _, ref := range a.eng.Themes.List() {
				fav := a.eng.Global.IsFav(ref.Name)
				if favsOnly && !fav {
					continue
				}
				table.AddRow(marker(a.eng.IsActive(engine.ThemeItem(ref), nil)), ref.Name, yesNo(fav))
			}
			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&favsOnly, "favs", false, "list favourite themes only")
	return cmd
}

// themeNamed resolves an optional positional theme name, falling back to
// the current theme.
func (a *app) themeNamed(args []string) (theme.Ref, error) {
	if len(args) > 0 {
		return a.eng.Themes.ByName(args[0])
	}
	current, ok := a.eng.Global.CurrentTheme()
	if !ok {
		return theme.Ref{}, engine.ErrNoTheme
	}
	return a.eng.Themes.ByName(current)
}

func newThemeColorsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "colors [name]",
		Aliases: []string{"colours"},
		Short:   "Show a theme's palette",
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.themeNamed(args)
			if err != nil {
				return err
			}
			th, err := a.eng.Themes.Read(ref)
			if err != nil {
				return err
			}

			sw := newSwatcher(cmd.OutOrStdout())
			table := NewTable("ROLE", "COLOUR")
			for _, role := range th.Roles() {
				hex, _ := th.Color(role)
				table.AddRow(role, sw.render(hex))
			}
			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	}
}

func newThemeInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info [name]",
		Short: "Show a theme's metadata",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.themeNamed(args)
			if err != nil {
				return err
			}
			th, err := a.eng.Themes.Read(ref)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Theme:     %s\n", th.Name)
			fmt.Fprintf(out, "Path:      %s\n", ref.Path)
			fmt.Fprintf(out, "Colours:   %d\n", len(th.Colors))
			fmt.Fprintf(out, "Current:   %s\n", yesNo(a.eng.IsActive(engine.ThemeItem(ref), nil)))
			fmt.Fprintf(out, "Favourite: %s\n", yesNo(a.eng.Global.IsFav(ref.Name)))
			fmt.Fprintf(out, "Wallpaper: %s\n", wallpaperLine(th.Wallpaper))

			extras := make([]string, 0, len(th.Extras))
			for name := range th.Extras {
				extras = append(extras, name)
			}
			slices.Sort(extras)
			for _, name := range extras {
				fmt.Fprintf(out, "Extra:     %s %s\n", name, strings.Join(th.ExtraArgs(name), " "))
			}
			return nil
		},
	}
}

func wallpaperLine(wallpaper string) string {
	if wallpaper == "" {
		return "-"
	}
	path := paths.Expand(wallpaper)
	info, err := image.Inspect(path)
	if err != nil {
		return fmt.Sprintf("%s (unreadable: %v)", path, err)
	}
	return fmt.Sprintf("%s (%s, %dx%d)", path, info.Format, info.Width, info.Height)
}

func newThemeSkeletonCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new-skeleton <name>",
		Short: "Create a theme with every standard role left empty",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.eng.Themes.NewSkeleton(args[0])
			if err != nil {
				return err
			}
			a.printf(cmd.OutOrStdout(), "Created theme %s at %s\n", ref.Name, ref.Path)
			return nil
		},
	}
}

func newThemeRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a theme",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.eng.Themes.ByName(args[0])
			if err != nil {
				return err
			}
			if err := a.eng.Themes.Remove(ref); err != nil {
				return err
			}
			if a.eng.Global.RemoveFav(ref.Name) {
				if err := a.eng.Global.Save(); err != nil {
					return err
				}
			}
			a.printf(cmd.OutOrStdout(), "Removed theme %s\n", ref.Name)
			return nil
		},
	}
}

func newThemeEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <name>",
		Short: "Open a theme in the editor",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := a.eng.Themes.ByName(args[0])
			if err != nil {
				return err
			}
			return a.openEditor(cmd, ref.Path)
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
