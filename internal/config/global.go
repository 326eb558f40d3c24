// Package config persists gtheme's global state (current desktop, current
// theme, favourite themes) and the user's free-form settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/gtheme/gtheme/internal/paths"
	"github.com/gtheme/gtheme/internal/theme"
)

// ErrNoCurrentDesktop is returned by operations that need a current desktop
// when none is recorded.
var ErrNoCurrentDesktop = errors.New("no desktop is currently applied")

// Resolver maps a stored name to the authored name of an existing entry.
// Both the theme and the desktop stores satisfy it.
type Resolver interface {
	Resolve(name string) (string, bool)
}

// globalFile is the on-disk form of Global.
type globalFile struct {
	CurrentDesktop *string  `json:"current_desktop"`
	CurrentTheme   *string  `json:"current_theme"`
	FavThemes      []string `json:"fav_themes"`
}

// Global is the global configuration. Names are resolved against the theme
// and desktop stores at load time; references to entries that no longer
// exist are dropped and disappear on the next Save.
type Global struct {
	path           string
	currentDesktop string
	currentTheme   string
	favs           []string

	// untoggled remembers where the last favourite removed by ToggleFav
	// stood, so toggling it back restores its position.
	untoggled *favSlot

	themes Resolver
	logger hclog.Logger
}

// LoadGlobal reads the global configuration at path. A missing or malformed
// file yields an empty configuration and a logged warning.
func LoadGlobal(path string, themes, desktops Resolver, logger hclog.Logger) *Global {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	g := &Global{path: path, themes: themes, logger: logger.Named("global-config")}

	data, err := os.ReadFile(path) // #nosec G304 - path is the configured gtheme home
	if err != nil {
		g.logger.Warn("could not read global config, using defaults", "path", path, "error", err)
		return g
	}

	var f globalFile
	if err := json.Unmarshal(data, &f); err != nil {
		g.logger.Warn("could not parse global config, using defaults", "path", path, "error", err)
		return g
	}

	if f.CurrentDesktop != nil && *f.CurrentDesktop != "" {
		if name, ok := desktops.Resolve(*f.CurrentDesktop); ok {
			g.currentDesktop = name
		} else {
			g.logger.Warn("current desktop no longer exists", "desktop", *f.CurrentDesktop)
		}
	}

	if g.currentDesktop != "" && f.CurrentTheme != nil && *f.CurrentTheme != "" {
		if name, ok := themes.Resolve(*f.CurrentTheme); ok {
			g.currentTheme = name
		} else {
			g.logger.Warn("current theme no longer exists", "theme", *f.CurrentTheme)
		}
	}

	for _, fav := range f.FavThemes {
		name, ok := themes.Resolve(fav)
		if !ok {
			g.logger.Debug("dropping favourite of missing theme", "theme", fav)
			continue
		}
		if !g.IsFav(name) {
			g.favs = append(g.favs, name)
		}
	}

	return g
}

// Path returns the file the configuration is saved to.
func (g *Global) Path() string {
	return g.path
}

// CurrentDesktop returns the name of the applied desktop, if any.
func (g *Global) CurrentDesktop() (string, bool) {
	return g.currentDesktop, g.currentDesktop != ""
}

// CurrentTheme returns the name of the applied theme, if any.
func (g *Global) CurrentTheme() (string, bool) {
	return g.currentTheme, g.currentTheme != ""
}

// SetCurrent records desktop and theme as applied.
func (g *Global) SetCurrent(desktop, themeName string) {
	g.currentDesktop = desktop
	g.currentTheme = themeName
	if desktop == "" {
		g.currentTheme = ""
	}
}

// SetCurrentTheme records theme as applied to the current desktop.
func (g *Global) SetCurrentTheme(themeName string) error {
	if g.currentDesktop == "" {
		return ErrNoCurrentDesktop
	}
	g.currentTheme = themeName
	return nil
}

// ClearCurrent forgets the applied desktop and theme.
func (g *Global) ClearCurrent() {
	g.currentDesktop = ""
	g.currentTheme = ""
}

// Favs returns the favourite themes in the order they were added.
func (g *Global) Favs() []string {
	return slices.Clone(g.favs)
}

// IsFav reports whether name is a favourite.
func (g *Global) IsFav(name string) bool {
	return g.favIndex(name) >= 0
}

func (g *Global) favIndex(name string) int {
	return slices.IndexFunc(g.favs, func(f string) bool {
		return strings.EqualFold(f, name)
	})
}

// AddFav marks an existing theme as favourite. Adding a favourite twice is a
// no-op.
func (g *Global) AddFav(name string) error {
	resolved, ok := g.themes.Resolve(name)
	if !ok {
		return fmt.Errorf("%w: %s", theme.ErrNotFound, name)
	}
	if g.IsFav(resolved) {
		g.logger.Debug("theme is already a favourite", "theme", resolved)
		return nil
	}
	g.favs = append(g.favs, resolved)
	return nil
}

// RemoveFav unmarks a favourite and reports whether it was one.
func (g *Global) RemoveFav(name string) bool {
	i := g.favIndex(name)
	if i < 0 {
		return false
	}
	g.favs = slices.Delete(g.favs, i, i+1)
	return true
}

type favSlot struct {
	name  string
	index int
}

// ToggleFav flips the favourite state of a theme and returns the new state.
// Toggling the same theme twice leaves the favourites as they were.
func (g *Global) ToggleFav(name string) (bool, error) {
	if i := g.favIndex(name); i >= 0 {
		g.untoggled = &favSlot{name: g.favs[i], index: i}
		g.favs = slices.Delete(g.favs, i, i+1)
		return false, nil
	}

	slot := g.untoggled
	g.untoggled = nil
	if err := g.AddFav(name); err != nil {
		return false, err
	}
	last := len(g.favs) - 1
	if slot != nil && slot.name == g.favs[last] && slot.index < last {
		g.favs = slices.Insert(g.favs[:last], slot.index, g.favs[last])
	}
	return true, nil
}

// Save writes the configuration, replacing the previous file.
func (g *Global) Save() error {
	f := globalFile{FavThemes: g.Favs()}
	if f.FavThemes == nil {
		f.FavThemes = []string{}
	}
	if g.currentDesktop != "" {
		f.CurrentDesktop = &g.currentDesktop
	}
	if g.currentTheme != "" {
		f.CurrentTheme = &g.currentTheme
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode global config: %w", err)
	}
	if err := paths.WriteFile(g.path, append(data, '\n')); err != nil {
		return fmt.Errorf("failed to save global config: %w", err)
	}
	g.logger.Debug("saved global config", "path", g.path)
	return nil
}
