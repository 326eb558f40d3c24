// Package compression unpacks desktop archives shared as tarballs or zip files.
package compression

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gtheme/gtheme/internal/paths"
)

// MaxArchiveSize caps the decompressed size of a single archive member.
const MaxArchiveSize = 512 * 1024 * 1024

// ErrUnsupported is returned for files that are not a supported archive.
var ErrUnsupported = errors.New("unsupported archive format")

type format int

const (
	formatNone format = iota
	formatTarGz
	formatTarXz
	formatTarBz2
	formatZip
)

var suffixes = []struct {
	ext    string
	format format
}{
	{".tar.gz", formatTarGz},
	{".tgz", formatTarGz},
	{".tar.xz", formatTarXz},
	{".txz", formatTarXz},
	{".tar.bz2", formatTarBz2},
	{".tbz", formatTarBz2},
	{".tbz2", formatTarBz2},
	{".zip", formatZip},
}

func detect(name string) (format, string) {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s.ext) {
			return s.format, s.ext
		}
	}
	return formatNone, ""
}

// IsArchive reports whether name has a supported archive extension.
func IsArchive(name string) bool {
	f, _ := detect(name)
	return f != formatNone
}

// ArchiveBaseName strips the archive extension from a file name.
// For example: "cyberpunk.tar.xz" -> "cyberpunk".
func ArchiveBaseName(name string) string {
	base := filepath.Base(name)
	if _, ext := detect(base); ext != "" {
		return base[:len(base)-len(ext)]
	}
	return base
}

// Extract unpacks the archive at archivePath into destDir.
func Extract(archivePath, destDir string) error {
	f, _ := detect(archivePath)
	if f == formatNone {
		return fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(archivePath))
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", destDir, err)
	}

	if f == formatZip {
		return extractZip(archivePath, destDir)
	}

	file, err := os.Open(archivePath) // #nosec G304 - archive path supplied by the user
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	switch f {
	case formatTarGz:
		return extractTarGz(file, destDir)
	case formatTarXz:
		return extractTarXz(file, destDir)
	default:
		return extractTarBz2(file, destDir)
	}
}

// Root returns the directory an extracted archive should be imported from:
// its single top-level directory when it has one, otherwise dir itself.
func Root(dir string) (string, error) {
	entries, err := paths.ReadDir(dir, nil)
	if err != nil {
		return "", fmt.Errorf("failed to read extracted archive: %w", err)
	}

	var visible []paths.Entry
	for _, e := range entries {
		if !paths.IsHidden(e.Name) {
			visible = append(visible, e)
		}
	}
	if len(visible) == 1 && visible[0].IsDir {
		return visible[0].Path, nil
	}
	return dir, nil
}
