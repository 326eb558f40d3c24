package cli

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

// openEditor opens path in the configured editor.
func (a *app) openEditor(cmd *cobra.Command, path string) error {
	return a.launch(cmd, a.opts.Editor(), path)
}

// openExplorer opens dir in the configured file explorer.
func (a *app) openExplorer(cmd *cobra.Command, dir string) error {
	return a.launch(cmd, a.opts.Explorer(), dir)
}

// launch runs program attached to the terminal with path appended to its
// arguments. program may carry its own arguments, as in "code --wait".
func (a *app) launch(cmd *cobra.Command, program, path string) error {
	fields := strings.Fields(program)
	if len(fields) == 0 {
		return usageError{fmt.Errorf("no program configured to open %s", path)}
	}

	a.logger.Debug("launching", "program", fields[0], "path", path)
	c := exec.CommandContext(cmd.Context(), fields[0], append(fields[1:], path)...) // #nosec G204 - program is the user's own editor setting
	c.Stdin = cmd.InOrStdin()
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to run %s: %w", fields[0], err)
	}
	return nil
}
