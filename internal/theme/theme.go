// Package theme loads, enumerates and creates gtheme theme definitions.
package theme

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/gtheme/gtheme/internal/paths"
)

var (
	// ErrNotFound is returned when a theme name does not resolve.
	ErrNotFound = errors.New("theme not found")

	// ErrExists is returned when creating a theme whose name is taken.
	ErrExists = errors.New("theme already exists")
)

// Theme is a named palette plus optional wallpaper and per-extra arguments.
// Colours are stored as six hex digits without a leading '#'.
type Theme struct {
	Name      string              `json:"name"`
	Wallpaper string              `json:"wallpaper,omitempty"`
	Extras    map[string][]string `json:"extras,omitempty"`
	Colors    map[string]string   `json:"colors"`
}

// Roles returns the colour role names of the theme in sorted order.
func (t *Theme) Roles() []string {
	return slices.Sorted(maps.Keys(t.Colors))
}

// Color returns the value of role, if present.
func (t *Theme) Color(role string) (string, bool) {
	v, ok := t.Colors[role]
	return v, ok
}

// ExtraArgs returns the arguments the theme provides for the named extra.
func (t *Theme) ExtraArgs(extra string) []string {
	for name, args := range t.Extras {
		if strings.EqualFold(name, extra) {
			return args
		}
	}
	return nil
}

// Encode serialises the theme as indented JSON.
func (t *Theme) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode theme %q: %w", t.Name, err)
	}
	return append(data, '\n'), nil
}

// Decode parses a theme document.
func Decode(data []byte) (*Theme, error) {
	var t Theme
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to parse theme: %w", err)
	}
	if t.Colors == nil {
		t.Colors = map[string]string{}
	}
	return &t, nil
}

// Ref identifies a theme file on disk.
type Ref struct {
	Name string
	Path string
}

// Store enumerates and loads themes from a directory.
type Store struct {
	dir    string
	logger hclog.Logger
}

// NewStore creates a Store reading from dir.
func NewStore(dir string, logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{dir: dir, logger: logger.Named("themes")}
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// List returns every theme in the store ordered by case-insensitive name.
func (s *Store) List() []Ref {
	entries, err := paths.ReadDir(s.dir, s.logger)
	if err != nil {
		return nil
	}

	refs := make([]Ref, 0, len(entries))
	for _, e := range entries {
		if e.IsDir || paths.IsHidden(e.Name) {
			continue
		}
		refs = append(refs, Ref{Name: paths.StripExt(e.Name), Path: e.Path})
	}
	return refs
}

// ByName resolves a theme by case-insensitive name.
func (s *Store) ByName(name string) (Ref, error) {
	for _, ref := range s.List() {
		if strings.EqualFold(ref.Name, name) {
			return ref, nil
		}
	}
	return Ref{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Resolve returns the authored name of the theme matching name.
func (s *Store) Resolve(name string) (string, bool) {
	ref, err := s.ByName(name)
	return ref.Name, err == nil
}

// Exists reports whether a theme with the given name exists.
func (s *Store) Exists(name string) bool {
	_, err := s.ByName(name)
	return err == nil
}

// Read loads a theme and reports any I/O or parse failure.
func (s *Store) Read(ref Ref) (*Theme, error) {
	data, err := os.ReadFile(ref.Path) // #nosec G304 - theme path comes from the store listing
	if err != nil {
		return nil, fmt.Errorf("failed to read theme %q: %w", ref.Name, err)
	}

	t, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("theme %q: %w", ref.Name, err)
	}
	if t.Name == "" {
		t.Name = ref.Name
	}
	return t, nil
}

// Load reads a theme, falling back to the default palette carrying the
// requested name when the file cannot be read or parsed.
func (s *Store) Load(ref Ref) *Theme {
	t, err := s.Read(ref)
	if err != nil {
		s.logger.Warn("using default palette", "theme", ref.Name, "error", err)
		return Default(ref.Name)
	}
	return t
}

// Save writes the theme to <dir>/<name>.json.
func (s *Store) Save(t *Theme) (Ref, error) {
	data, err := t.Encode()
	if err != nil {
		return Ref{}, err
	}

	path := filepath.Join(s.dir, t.Name+".json")
	if err := paths.WriteFile(path, data); err != nil {
		return Ref{}, err
	}
	return Ref{Name: t.Name, Path: path}, nil
}

// NewSkeleton creates a theme with every standard role present but empty.
func (s *Store) NewSkeleton(name string) (Ref, error) {
	if s.Exists(name) {
		return Ref{}, fmt.Errorf("%w: %s", ErrExists, name)
	}

	colors := make(map[string]string, len(StandardRoles))
	for _, role := range StandardRoles {
		colors[role] = ""
	}

	ref, err := s.Save(&Theme{Name: name, Colors: colors})
	if err != nil {
		return Ref{}, err
	}
	s.logger.Info("created theme", "theme", name, "path", ref.Path)
	return ref, nil
}

// Remove deletes the theme file.
func (s *Store) Remove(ref Ref) error {
	if err := os.Remove(ref.Path); err != nil {
		return fmt.Errorf("failed to remove theme %q: %w", ref.Name, err)
	}
	s.logger.Info("removed theme", "theme", ref.Name)
	return nil
}
