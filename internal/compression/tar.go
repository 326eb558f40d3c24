package compression

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"

	"github.com/gtheme/gtheme/internal/security"
)

// extractTarGz unpacks a tar.gz stream.
func extractTarGz(r io.Reader, destDir string) error {
	gzr, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzr.Close()

	return extractTar(gzr, destDir)
}

// extractTarXz unpacks a tar.xz stream.
func extractTarXz(r io.Reader, destDir string) error {
	xzr, err := xz.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to create xz reader: %w", err)
	}
	return extractTar(xzr, destDir)
}

// extractTarBz2 unpacks a tar.bz2 stream.
func extractTarBz2(r io.Reader, destDir string) error {
	return extractTar(bzip2.NewReader(r), destDir)
}

func extractTar(r io.Reader, destDir string) error {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar archive: %w", err)
		}

		if err := security.ValidateFilePath(header.Name, destDir); err != nil {
			return fmt.Errorf("invalid archive entry %q: %w", header.Name, err)
		}
		target := filepath.Join(destDir, header.Name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, header.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := security.ValidateLinkTarget(header.Linkname, header.Name, destDir); err != nil {
				return fmt.Errorf("invalid archive link %q: %w", header.Name, err)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("failed to create symlink: %w", err)
			}
		default:
			// Devices, fifos and hard links have no place in a desktop.
		}
	}
}

// writeEntry copies one archive member to target, keeping its permission
// bits so scripts stay executable.
func writeEntry(target string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm|0o600) // #nosec G304 - target validated against the destination
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	// Limit decompression size to prevent archive bombs
	limitedReader := security.NewLimitedReader(r, MaxArchiveSize)
	_, copyErr := io.Copy(out, limitedReader)
	closeErr := out.Close() // Close immediately instead of defer

	if copyErr != nil {
		return fmt.Errorf("failed to extract %q: %w", filepath.Base(target), copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %q: %w", filepath.Base(target), closeErr)
	}
	return nil
}
