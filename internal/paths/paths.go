// Package paths provides path expansion, ordered directory listing and the
// on-disk layout of the gtheme home directory.
package paths

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"
)

// Expand replaces a leading ~ with the user's home directory and expands
// $VAR and ${VAR} references from the environment. Unset variables expand
// to the empty string.
func Expand(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return os.ExpandEnv(path)
}

// StripExt returns the base name of path without its final extension.
func StripExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsHidden reports whether a base name denotes a hidden entry.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Entry is a single directory entry returned by ReadDir.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
	Mode  fs.FileMode
}

// ReadDir lists dir sorted by case-insensitive base name. Entries that cannot
// be represented (non UTF-8 names) or whose metadata cannot be read are logged
// and dropped; they never abort the listing. A directory that cannot be read
// yields no entries and the read error.
func ReadDir(dir string, logger hclog.Logger) ([]Entry, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("directory does not exist", "path", dir)
		} else {
			logger.Error("could not read directory", "path", dir, "error", err)
		}
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if !utf8.ValidString(name) {
			logger.Error("skipping entry with invalid unicode name", "dir", dir, "name", fmt.Sprintf("%q", name))
			continue
		}

		path := filepath.Join(dir, name)
		// Stat follows symlinks so linked pattern directories behave like real ones.
		info, err := os.Stat(path)
		if err != nil {
			logger.Error("could not read metadata", "path", path, "error", err)
			continue
		}

		entries = append(entries, Entry{
			Name:  name,
			Path:  path,
			IsDir: info.IsDir(),
			Mode:  info.Mode(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return entries, nil
}

// WriteFile writes data to path, creating any missing parent directories.
// Existing files are truncated before writing.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	// #nosec G306 -- generated configuration files are user readable
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

// CopyDir recursively copies src into dst, preserving file modes so that
// copied scripts stay executable.
func CopyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		}
		if !info.Mode().IsRegular() {
			// Symlinks and special files are recreated only when they are links.
			if info.Mode()&fs.ModeSymlink != 0 {
				link, err := os.Readlink(path)
				if err != nil {
					return err
				}
				return os.Symlink(link, target)
			}
			return nil
		}
		return copyFile(path, target, info.Mode().Perm())
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src) // #nosec G304 - copying a user supplied desktop tree
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm) // #nosec G304
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("failed to copy %q: %w", src, copyErr)
	}
	return closeErr
}
