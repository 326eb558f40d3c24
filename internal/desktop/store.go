// Package desktop manages installed desktops: directories bundling pattern
// templates, post-scripts, extras and metadata below the gtheme home.
package desktop

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/gtheme/gtheme/internal/compression"
	"github.com/gtheme/gtheme/internal/paths"
	"github.com/gtheme/gtheme/internal/pattern"
	"github.com/gtheme/gtheme/internal/postscript"
	"github.com/gtheme/gtheme/internal/security"
)

var (
	// ErrNotFound is returned when a desktop name does not resolve.
	ErrNotFound = errors.New("desktop not found")

	// ErrExists is returned when adding or creating a desktop whose name is taken.
	ErrExists = errors.New("desktop already exists")
)

// Ref identifies an installed desktop.
type Ref struct {
	Name string
	Path string
}

// Store enumerates and manages desktops below a directory.
type Store struct {
	dir    string
	logger hclog.Logger
}

// NewStore creates a Store over dir.
func NewStore(dir string, logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{dir: dir, logger: logger.Named("desktops")}
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Logger returns the store's logger.
func (s *Store) Logger() hclog.Logger {
	return s.logger
}

// List returns every installed desktop ordered by case-insensitive name.
// Hidden directories and plain files are ignored.
func (s *Store) List() []Ref {
	entries, err := paths.ReadDir(s.dir, s.logger)
	if err != nil {
		return nil
	}

	refs := make([]Ref, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir || paths.IsHidden(e.Name) {
			continue
		}
		refs = append(refs, Ref{Name: e.Name, Path: e.Path})
	}
	return refs
}

// ByName resolves a desktop by case-insensitive name.
func (s *Store) ByName(name string) (Ref, error) {
	for _, ref := range s.List() {
		if strings.EqualFold(ref.Name, name) {
			return ref, nil
		}
	}
	return Ref{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Resolve returns the authored name of the desktop matching name.
func (s *Store) Resolve(name string) (string, bool) {
	ref, err := s.ByName(name)
	return ref.Name, err == nil
}

// Exists reports whether a desktop with the given name is installed.
func (s *Store) Exists(name string) bool {
	_, err := s.ByName(name)
	return err == nil
}

// Add installs the desktop at src, which is either a directory or a
// supported archive. The desktop is named after the directory (or the
// archive's top-level directory). An existing desktop of the same name is
// replaced only when force is set.
func (s *Store) Add(src string, force bool) (Ref, error) {
	src = paths.Expand(src)
	info, err := os.Stat(src)
	if err != nil {
		return Ref{}, fmt.Errorf("failed to read %q: %w", src, err)
	}

	root := src
	name := filepath.Base(filepath.Clean(src))
	if !info.IsDir() {
		if !compression.IsArchive(src) {
			return Ref{}, fmt.Errorf("%q is neither a directory nor a supported archive", src)
		}

		tmp, err := os.MkdirTemp("", "gtheme-desktop-")
		if err != nil {
			return Ref{}, fmt.Errorf("failed to create temporary directory: %w", err)
		}
		defer os.RemoveAll(tmp)

		s.logger.Debug("extracting desktop archive", "archive", src, "dir", tmp)
		if err := compression.Extract(src, tmp); err != nil {
			return Ref{}, fmt.Errorf("failed to extract %q: %w", src, err)
		}
		if root, err = compression.Root(tmp); err != nil {
			return Ref{}, err
		}
		name = compression.ArchiveBaseName(src)
		if root != tmp {
			name = filepath.Base(root)
		}
	}

	if err := security.ValidateName(name); err != nil {
		return Ref{}, fmt.Errorf("invalid desktop name: %w", err)
	}

	if existing, err := s.ByName(name); err == nil {
		if !force {
			return Ref{}, fmt.Errorf("%w: %s", ErrExists, existing.Name)
		}
		if security.ValidateWithin(root, existing.Path) == nil {
			return Ref{}, fmt.Errorf("%w: %s cannot be replaced by %q, which lies inside it", ErrExists, existing.Name, src)
		}
		s.logger.Info("replacing existing desktop", "desktop", existing.Name)
		if err := os.RemoveAll(existing.Path); err != nil {
			return Ref{}, fmt.Errorf("failed to remove desktop %q: %w", existing.Name, err)
		}
	}

	dst := filepath.Join(s.dir, name)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Ref{}, fmt.Errorf("failed to create desktops directory: %w", err)
	}
	if err := paths.CopyDir(root, dst); err != nil {
		return Ref{}, fmt.Errorf("failed to copy desktop %q: %w", name, err)
	}

	s.logger.Info("added desktop", "desktop", name, "path", dst)
	return Ref{Name: name, Path: dst}, nil
}

// Remove deletes an installed desktop.
func (s *Store) Remove(ref Ref) error {
	if err := security.ValidateWithin(ref.Path, s.dir); err != nil {
		return fmt.Errorf("refusing to remove %q: %w", ref.Path, err)
	}
	if err := os.RemoveAll(ref.Path); err != nil {
		return fmt.Errorf("failed to remove desktop %q: %w", ref.Name, err)
	}
	s.logger.Info("removed desktop", "desktop", ref.Name)
	return nil
}

// NewSkeleton creates an empty desktop with the standard directory layout,
// an empty .config for dotfiles, an empty info file and a default
// configuration.
func (s *Store) NewSkeleton(name string) (Ref, error) {
	if err := security.ValidateName(name); err != nil {
		return Ref{}, fmt.Errorf("invalid desktop name: %w", err)
	}
	if s.Exists(name) {
		return Ref{}, fmt.Errorf("%w: %s", ErrExists, name)
	}

	ref := Ref{Name: name, Path: filepath.Join(s.dir, name)}
	for _, dir := range []string{
		DotfilesDir(ref.Path),
		pattern.Dir(ref.Path),
		postscript.PostScriptsDir(ref.Path),
		postscript.ExtrasDir(ref.Path),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Ref{}, fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	if err := (&Info{}).Save(ref.Path); err != nil {
		return Ref{}, err
	}
	if err := DefaultConfig(Load(ref, s.logger), s.logger).Save(); err != nil {
		return Ref{}, err
	}

	s.logger.Info("created desktop", "desktop", name, "path", ref.Path)
	return ref, nil
}
