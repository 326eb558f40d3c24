package paths

import (
	"path/filepath"
)

const (
	// DefaultRoot is the gtheme home used when no override is configured.
	DefaultRoot = "~/.config/gtheme"

	// DefaultConfigHome receives the dotfiles a desktop ships.
	DefaultConfigHome = "~/.config"

	// DefaultFontsHome receives the fonts a desktop ships.
	DefaultFontsHome = "~/.local/share/fonts/gtheme-fonts"
)

// Layout resolves the well-known files and directories below a gtheme home,
// and the user directories desktops are installed into.
type Layout struct {
	Root       string
	ConfigHome string
	FontsHome  string
}

// NewLayout returns a Layout rooted at root, or at DefaultRoot when root is
// empty. Every path is expanded.
func NewLayout(root string) Layout {
	if root == "" {
		root = DefaultRoot
	}
	return Layout{
		Root:       Expand(root),
		ConfigHome: Expand(DefaultConfigHome),
		FontsHome:  Expand(DefaultFontsHome),
	}
}

// Themes returns the directory holding theme files.
func (l Layout) Themes() string {
	return filepath.Join(l.Root, "themes")
}

// Desktops returns the directory holding desktops.
func (l Layout) Desktops() string {
	return filepath.Join(l.Root, "desktops")
}

// GlobalConfig returns the path of the global configuration file.
func (l Layout) GlobalConfig() string {
	return filepath.Join(l.Root, "global_config.json")
}

// UserSettings returns the path of the user settings file.
func (l Layout) UserSettings() string {
	return filepath.Join(l.Root, "user_settings.toml")
}
