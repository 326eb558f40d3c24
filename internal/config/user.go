package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"

	"github.com/hashicorp/go-hclog"
	"github.com/pelletier/go-toml/v2"

	"github.com/gtheme/gtheme/internal/paths"
)

// userSettingsFile is the on-disk form of UserSettings.
type userSettingsFile struct {
	Properties map[string]string `toml:"properties"`
}

// UserSettings is the user's free-form key/value store. Every pair is
// exported to post-scripts as an environment variable.
type UserSettings struct {
	path       string
	properties map[string]string
	logger     hclog.Logger
}

// LoadUserSettings reads the settings at path. Both a [properties] table and
// a flat top-level map are accepted. A missing or malformed file yields
// empty settings and a logged warning.
func LoadUserSettings(path string, logger hclog.Logger) *UserSettings {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	u := &UserSettings{path: path, properties: map[string]string{}, logger: logger.Named("user-settings")}

	data, err := os.ReadFile(path) // #nosec G304 - path is the configured gtheme home
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			u.logger.Debug("no user settings, using defaults", "path", path)
		} else {
			u.logger.Warn("could not read user settings, using defaults", "path", path, "error", err)
		}
		return u
	}

	props, err := decodeProperties(data)
	if err != nil {
		u.logger.Warn("could not parse user settings, using defaults", "path", path, "error", err)
		return u
	}
	u.properties = props
	return u
}

func decodeProperties(data []byte) (map[string]string, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse user settings: %w", err)
	}

	src := doc
	if table, ok := doc["properties"].(map[string]any); ok {
		src = table
	}

	props := make(map[string]string, len(src))
	for k, v := range src {
		switch val := v.(type) {
		case string:
			props[k] = val
		case map[string]any, []any:
			// Nested tables and arrays are not properties.
		default:
			props[k] = fmt.Sprint(val)
		}
	}
	return props, nil
}

// Path returns the file the settings are saved to.
func (u *UserSettings) Path() string {
	return u.path
}

// Exists reports whether the settings file is present on disk.
func (u *UserSettings) Exists() bool {
	_, err := os.Stat(u.path)
	return err == nil
}

// Get returns the value of key.
func (u *UserSettings) Get(key string) (string, bool) {
	v, ok := u.properties[key]
	return v, ok
}

// Set stores value under key.
func (u *UserSettings) Set(key, value string) {
	u.properties[key] = value
	u.logger.Info("property set", "key", key, "value", value)
}

// Unset removes key and reports whether it was present.
func (u *UserSettings) Unset(key string) bool {
	if _, ok := u.properties[key]; !ok {
		u.logger.Warn("property does not exist", "key", key)
		return false
	}
	delete(u.properties, key)
	u.logger.Info("property unset", "key", key)
	return true
}

// Keys returns the property names in sorted order.
func (u *UserSettings) Keys() []string {
	return slices.Sorted(maps.Keys(u.properties))
}

// Properties returns a copy of every stored pair.
func (u *UserSettings) Properties() map[string]string {
	return maps.Clone(u.properties)
}

// Environ returns the properties as KEY=VALUE pairs in key order.
func (u *UserSettings) Environ() []string {
	env := make([]string, 0, len(u.properties))
	for _, k := range u.Keys() {
		env = append(env, k+"="+u.properties[k])
	}
	return env
}

// Encode serialises the settings as a [properties] table with sorted keys.
func (u *UserSettings) Encode() ([]byte, error) {
	data, err := toml.Marshal(userSettingsFile{Properties: u.properties})
	if err != nil {
		return nil, fmt.Errorf("failed to encode user settings: %w", err)
	}
	return data, nil
}

// Save writes the settings, replacing the previous file.
func (u *UserSettings) Save() error {
	data, err := u.Encode()
	if err != nil {
		return err
	}
	if err := paths.WriteFile(u.path, data); err != nil {
		return fmt.Errorf("failed to save user settings: %w", err)
	}
	u.logger.Debug("saved user settings", "path", u.path)
	return nil
}
