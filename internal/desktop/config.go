package desktop

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/gtheme/gtheme/internal/paths"
	"github.com/gtheme/gtheme/internal/postscript"
)

const configFile = "desktop_config.json"

// ThemeResolver maps a stored theme name to the authored name of an
// existing theme.
type ThemeResolver interface {
	Resolve(name string) (string, bool)
}

// configDocument is the on-disk form of Config.
type configDocument struct {
	DefaultTheme *string         `json:"default_theme"`
	Actived      map[string]bool `json:"actived"`
	Inverted     map[string]bool `json:"inverted"`
}

// Config is a desktop's persisted activation and inversion state. Keys are
// top-level pattern, module and extra names; an absent key reads as false.
type Config struct {
	path         string
	desktop      string
	defaultTheme string
	actived      map[string]bool
	inverted     map[string]bool
	logger       hclog.Logger
}

// ConfigPath returns the configuration file of a desktop.
func ConfigPath(desktopPath string) string {
	return filepath.Join(desktopPath, configFile)
}

// DefaultConfig returns a configuration activating every pattern, module
// and extra of d. The wallpaper slot is activated when d ships a wallpaper
// post-script.
func DefaultConfig(d *Desktop, logger hclog.Logger) *Config {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	c := &Config{
		path:     ConfigPath(d.Path),
		desktop:  d.Name,
		actived:  map[string]bool{},
		inverted: map[string]bool{},
		logger:   logger.Named("desktop-config"),
	}
	for _, p := range d.Tree {
		c.actived[p.Name] = true
		c.inverted[p.Name] = false
	}
	for _, e := range d.Scripts.Extras() {
		c.actived[e.Name] = true
	}
	if _, ok := d.Scripts.PostScript(postscript.Wallpaper); ok {
		c.actived[postscript.Wallpaper] = true
	}
	return c
}

// LoadConfig reads the configuration of d. A missing file yields the
// default configuration, which is persisted; a malformed file yields the
// default without touching the file. A default theme that no longer exists
// is dropped.
func LoadConfig(d *Desktop, themes ThemeResolver, logger hclog.Logger) *Config {
	c, missing := readConfig(d, themes, logger)
	if missing {
		c.logger.Warn("no desktop config, creating default", "desktop", d.Name)
		if err := c.Save(); err != nil {
			c.logger.Error("could not save default desktop config", "desktop", d.Name, "error", err)
		}
	}
	return c
}

// ReadConfig is LoadConfig without side effects: a missing file yields the
// default configuration and nothing is written.
func ReadConfig(d *Desktop, themes ThemeResolver, logger hclog.Logger) *Config {
	c, missing := readConfig(d, themes, logger)
	if missing {
		c.logger.Debug("no desktop config, using default", "desktop", d.Name)
	}
	return c
}

func readConfig(d *Desktop, themes ThemeResolver, logger hclog.Logger) (*Config, bool) {
	c := DefaultConfig(d, logger)

	data, err := os.ReadFile(c.path) // #nosec G304 - path inside an installed desktop
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, true
		}
		c.logger.Warn("could not read desktop config, using default", "desktop", d.Name, "error", err)
		return c, false
	}

	var doc configDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		c.logger.Warn("could not parse desktop config, using default", "desktop", d.Name, "error", err)
		return c, false
	}

	c.actived = doc.Actived
	if c.actived == nil {
		c.actived = map[string]bool{}
	}
	c.inverted = doc.Inverted
	if c.inverted == nil {
		c.inverted = map[string]bool{}
	}

	if doc.DefaultTheme != nil && *doc.DefaultTheme != "" {
		if name, ok := themes.Resolve(*doc.DefaultTheme); ok {
			c.defaultTheme = name
		} else {
			c.logger.Warn("default theme no longer exists", "desktop", d.Name, "theme", *doc.DefaultTheme)
		}
	}
	return c, false
}

// key returns the stored spelling of name, or name itself when absent.
func key(m map[string]bool, name string) string {
	if _, ok := m[name]; ok {
		return name
	}
	for k := range m {
		if strings.EqualFold(k, name) {
			return k
		}
	}
	return name
}

// DefaultTheme returns the theme applied when the desktop is installed
// without an explicit theme.
func (c *Config) DefaultTheme() (string, bool) {
	return c.defaultTheme, c.defaultTheme != ""
}

// SetDefaultTheme records the desktop's default theme.
func (c *Config) SetDefaultTheme(name string) {
	c.defaultTheme = name
	c.logger.Info("set default theme", "desktop", c.desktop, "theme", name)
}

// Actived returns a copy of the activation map.
func (c *Config) Actived() map[string]bool {
	return maps.Clone(c.actived)
}

// Inverted returns a copy of the inversion map.
func (c *Config) Inverted() map[string]bool {
	return maps.Clone(c.inverted)
}

// IsActive reports whether the pattern, module or extra name is activated.
func (c *Config) IsActive(name string) bool {
	return c.actived[key(c.actived, name)]
}

// IsInverted reports whether the pattern or module name is inverted.
func (c *Config) IsInverted(name string) bool {
	return c.inverted[key(c.inverted, name)]
}

func (c *Config) setActive(kind, name string, state bool) bool {
	k := key(c.actived, name)
	if c.actived[k] == state {
		c.logger.Warn(fmt.Sprintf("%s already %s", kind, stateWord(state)), kind, name, "desktop", c.desktop)
		return false
	}
	c.actived[k] = state
	c.logger.Info(fmt.Sprintf("%s %s", kind, stateWord(state)), kind, name, "desktop", c.desktop)
	return true
}

func stateWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// EnablePattern activates a pattern and reports whether the state changed.
func (c *Config) EnablePattern(name string) bool {
	return c.setActive("pattern", name, true)
}

// DisablePattern deactivates a pattern and reports whether the state changed.
func (c *Config) DisablePattern(name string) bool {
	return c.setActive("pattern", name, false)
}

// TogglePattern flips a pattern's activation and returns the new state.
func (c *Config) TogglePattern(name string) bool {
	state := !c.IsActive(name)
	c.setActive("pattern", name, state)
	return state
}

// EnableExtra activates an extra and reports whether the state changed.
func (c *Config) EnableExtra(name string) bool {
	return c.setActive("extra", name, true)
}

// DisableExtra deactivates an extra and reports whether the state changed.
func (c *Config) DisableExtra(name string) bool {
	return c.setActive("extra", name, false)
}

// ToggleExtra flips an extra's activation and returns the new state.
func (c *Config) ToggleExtra(name string) bool {
	state := !c.IsActive(name)
	c.setActive("extra", name, state)
	return state
}

// ToggleInvertPattern flips a pattern's inversion, treating an absent entry
// as false, and returns the new state.
func (c *Config) ToggleInvertPattern(name string) bool {
	k := key(c.inverted, name)
	c.inverted[k] = !c.inverted[k]
	if c.inverted[k] {
		c.logger.Info("pattern inverted", "pattern", name, "desktop", c.desktop)
	} else {
		c.logger.Info("pattern no longer inverted", "pattern", name, "desktop", c.desktop)
	}
	return c.inverted[k]
}

// Save writes the configuration, replacing the previous file.
func (c *Config) Save() error {
	doc := configDocument{Actived: c.actived, Inverted: c.inverted}
	if c.defaultTheme != "" {
		doc.DefaultTheme = &c.defaultTheme
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode desktop config: %w", err)
	}
	if err := paths.WriteFile(c.path, append(data, '\n')); err != nil {
		return fmt.Errorf("failed to save desktop config: %w", err)
	}
	c.logger.Debug("saved desktop config", "desktop", c.desktop, "path", c.path)
	return nil
}
