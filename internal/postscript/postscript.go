// Package postscript discovers the executables a desktop ships next to its
// patterns and runs them.
//
// Post-scripts live in <desktop>/gtheme/post-scripts and run after the
// pattern of the same name is written, receiving the output path as their
// only argument. A few names are reserved for desktop level hooks. Extras
// live in <desktop>/gtheme/extras and are started without waiting.
package postscript

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/gtheme/gtheme/internal/paths"
)

// Reserved post-script names.
const (
	Wallpaper   = "wallpaper"
	PreInstall  = "pre-install"
	PostInstall = "post-install"
	DesktopExit = "desktop-exit"
)

// ErrNotFound is returned when a script name does not resolve.
var ErrNotFound = errors.New("script not found")

// IsReserved reports whether name is a desktop level hook rather than a
// pattern post-script.
func IsReserved(name string) bool {
	switch strings.ToLower(name) {
	case Wallpaper, PreInstall, PostInstall, DesktopExit:
		return true
	}
	return false
}

// Script is an executable shipped by a desktop.
type Script struct {
	Name string
	Path string
}

// Registry holds the post-scripts and extras of one desktop.
type Registry struct {
	postScripts []Script
	extras      []Script
}

// PostScriptsDir returns the post-scripts directory of a desktop.
func PostScriptsDir(desktopPath string) string {
	return filepath.Join(desktopPath, "gtheme", "post-scripts")
}

// ExtrasDir returns the extras directory of a desktop.
func ExtrasDir(desktopPath string) string {
	return filepath.Join(desktopPath, "gtheme", "extras")
}

// Load scans a desktop for post-scripts and extras. Missing directories
// yield empty lists.
func Load(desktopPath string, logger hclog.Logger) *Registry {
	return &Registry{
		postScripts: scan(PostScriptsDir(desktopPath), logger),
		extras:      scan(ExtrasDir(desktopPath), logger),
	}
}

func scan(dir string, logger hclog.Logger) []Script {
	entries, err := paths.ReadDir(dir, logger)
	if err != nil {
		return nil
	}

	scripts := make([]Script, 0, len(entries))
	for _, e := range entries {
		if e.IsDir || paths.IsHidden(e.Name) {
			continue
		}
		scripts = append(scripts, Script{Name: paths.StripExt(e.Name), Path: e.Path})
	}
	return scripts
}

// PostScripts returns every post-script in name order.
func (r *Registry) PostScripts() []Script {
	return r.postScripts
}

// Extras returns every extra in name order.
func (r *Registry) Extras() []Script {
	return r.extras
}

// PostScript looks up a post-script by case-insensitive name.
func (r *Registry) PostScript(name string) (Script, bool) {
	return find(r.postScripts, name)
}

// Extra looks up an extra by case-insensitive name.
func (r *Registry) Extra(name string) (Script, bool) {
	return find(r.extras, name)
}

// ExtraByName is Extra returning ErrNotFound for unknown names.
func (r *Registry) ExtraByName(name string) (Script, error) {
	s, ok := r.Extra(name)
	if !ok {
		return Script{}, fmt.Errorf("%w: extra %s", ErrNotFound, name)
	}
	return s, nil
}

func find(scripts []Script, name string) (Script, bool) {
	for _, s := range scripts {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Script{}, false
}
