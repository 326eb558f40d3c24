package desktop

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gtheme/gtheme/internal/paths"
	"github.com/gtheme/gtheme/internal/security"
)

// DotfilesDir returns the directory whose entries a desktop installs into
// the user's config home.
func DotfilesDir(desktopPath string) string {
	return filepath.Join(desktopPath, ".config")
}

// FontsDir returns the directory whose entries a desktop installs into the
// user's fonts directory.
func FontsDir(desktopPath string) string {
	return filepath.Join(desktopPath, "fonts")
}

// Dotfiles lists the top-level entries of the desktop's .config directory.
// A desktop without one ships no dotfiles.
func (d *Desktop) Dotfiles() []paths.Entry {
	entries, _ := paths.ReadDir(DotfilesDir(d.Path), nil)
	return entries
}

// Fonts lists the top-level entries of the desktop's fonts directory.
func (d *Desktop) Fonts() []paths.Entry {
	entries, _ := paths.ReadDir(FontsDir(d.Path), nil)
	return entries
}

// CleanDotfiles removes from configHome every entry the desktop ships in its
// .config directory and returns the removed paths. Fonts are left alone.
func (d *Desktop) CleanDotfiles(configHome string) ([]string, error) {
	var removed []string
	var errs []error
	for _, e := range d.Dotfiles() {
		target := filepath.Join(configHome, e.Name)
		if err := security.ValidateWithin(target, configHome); err != nil {
			errs = append(errs, fmt.Errorf("refusing to remove %q: %w", target, err))
			continue
		}
		if _, err := os.Lstat(target); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := os.RemoveAll(target); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %q: %w", target, err))
			continue
		}
		removed = append(removed, target)
	}
	return removed, errors.Join(errs...)
}

// InstallDotfiles copies every entry of the desktop's .config directory into
// configHome and returns the installed paths.
func (d *Desktop) InstallDotfiles(configHome string) ([]string, error) {
	return install(d.Dotfiles(), configHome)
}

// InstallFonts copies every entry of the desktop's fonts directory into
// fontsHome and returns the installed paths. Nothing is created when the
// desktop ships no fonts.
func (d *Desktop) InstallFonts(fontsHome string) ([]string, error) {
	return install(d.Fonts(), fontsHome)
}

func install(entries []paths.Entry, dst string) ([]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %q: %w", dst, err)
	}

	var installed []string
	var errs []error
	for _, e := range entries {
		target := filepath.Join(dst, e.Name)
		if err := paths.CopyDir(e.Path, target); err != nil {
			errs = append(errs, fmt.Errorf("failed to install %q: %w", e.Name, err))
			continue
		}
		installed = append(installed, target)
	}
	return installed, errors.Join(errs...)
}
