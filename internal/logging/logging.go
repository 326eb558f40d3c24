// Package logging builds the hclog logger used by the gtheme CLI.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/term"
)

// Options controls logger construction.
type Options struct {
	// Level is an hclog level name; unknown names fall back to info.
	Level string
	// Verbose forces debug level, Quiet forces error level. Verbose wins.
	Verbose bool
	Quiet   bool
	Output  io.Writer
}

// level resolves the effective level of opts.
func (o Options) level() hclog.Level {
	switch {
	case o.Verbose:
		return hclog.Debug
	case o.Quiet:
		return hclog.Error
	}
	if lvl := hclog.LevelFromString(strings.TrimSpace(o.Level)); lvl != hclog.NoLevel {
		return lvl
	}
	return hclog.Info
}

// New creates the root logger. Output defaults to stderr and is coloured
// only when it is a terminal.
func New(opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	color := hclog.ColorOff
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) { // #nosec G115 - fd fits in int
		color = hclog.AutoColor
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:            "gtheme",
		Level:           opts.level(),
		Output:          out,
		Color:           color,
		DisableTime:     true,
		IncludeLocation: opts.Verbose,
	})
}
