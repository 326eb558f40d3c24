package desktop

import (
	"github.com/hashicorp/go-hclog"

	"github.com/gtheme/gtheme/internal/pattern"
	"github.com/gtheme/gtheme/internal/postscript"
)

// Desktop is a loaded desktop: its pattern tree and scripts.
type Desktop struct {
	Name string
	Path string

	// Tree holds the top-level patterns and modules in name order.
	Tree []pattern.Ref

	Scripts *postscript.Registry
}

// Load scans a desktop's patterns and scripts.
func Load(ref Ref, logger hclog.Logger) *Desktop {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Desktop{
		Name:    ref.Name,
		Path:    ref.Path,
		Tree:    pattern.List(ref.Path, logger),
		Scripts: postscript.Load(ref.Path, logger),
	}
}

// Ref returns the reference the desktop was loaded from.
func (d *Desktop) Ref() Ref {
	return Ref{Name: d.Name, Path: d.Path}
}

// Patterns returns every pattern file in application order.
func (d *Desktop) Patterns() []pattern.Ref {
	return pattern.Flatten(d.Tree)
}

// Pattern resolves a top-level pattern or module by name.
func (d *Desktop) Pattern(name string) (pattern.Ref, error) {
	return pattern.ByName(d.Tree, name)
}

// Extra resolves an extra by name.
func (d *Desktop) Extra(name string) (postscript.Script, error) {
	return d.Scripts.ExtraByName(name)
}
