// gtheme applies colour themes to desktop configurations.
package main

import (
	"os"

	"github.com/gtheme/gtheme/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
