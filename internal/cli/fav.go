package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFavCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fav",
		Aliases: []string{"favs"},
		Short:   "Manage favourite themes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favourite themes in the order they were added",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range a.eng.Global.Favs() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <theme>...",
		Short: "Add themes to the favourites",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				if err := a.eng.Global.AddFav(name); err != nil {
					return err
				}
			}
			return a.eng.Global.Save()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove <theme>...",
		Aliases: []string{"rm"},
		Short:   "Remove themes from the favourites",
		Args:    usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				if !a.eng.Global.RemoveFav(name) {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s is not a favourite\n", name)
				}
			}
			return a.eng.Global.Save()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <theme>...",
		Short: "Flip whether themes are favourites",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				fav, err := a.eng.Global.ToggleFav(name)
				if err != nil {
					return err
				}
				word := "removed from favourites"
				if fav {
					word = "added to favourites"
				}
				a.printf(cmd.OutOrStdout(), "%s: %s\n", name, word)
			}
			return a.eng.Global.Save()
		},
	})

	return cmd
}
