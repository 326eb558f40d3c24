package compression

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gtheme/gtheme/internal/security"
)

// extractZip unpacks a zip archive.
func extractZip(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create zip reader: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if err := security.ValidateFilePath(f.Name, destDir); err != nil {
			return fmt.Errorf("invalid archive entry %q: %w", f.Name, err)
		}
		target := filepath.Join(destDir, f.Name)

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}
		if !f.Mode().IsRegular() {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed to open file in archive: %w", err)
		}
		err = writeEntry(target, rc, f.Mode().Perm())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
