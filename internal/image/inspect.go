// Package image inspects theme wallpapers.
package image

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/webp" // Register WebP format
)

// ErrNotImage is returned for files that are not a decodable image.
var ErrNotImage = errors.New("not a supported image")

// Info describes a wallpaper without decoding its pixels.
type Info struct {
	Path   string
	Format string
	Width  int
	Height int
	Size   int64
}

// SupportedExtensions returns the file extensions recognised as wallpapers.
func SupportedExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
}

// IsImageFile reports whether path has a supported image extension.
func IsImageFile(path string) bool {
	return slices.Contains(SupportedExtensions(), strings.ToLower(filepath.Ext(path)))
}

// Inspect reads the header of the image at path.
func Inspect(path string) (Info, error) {
	if path == "" {
		return Info{}, fmt.Errorf("image path cannot be empty")
	}

	st, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to stat image file: %w", err)
	}
	if st.IsDir() {
		return Info{}, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - wallpaper path comes from the user's theme
	if err != nil {
		return Info{}, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s: %v", ErrNotImage, path, err)
	}

	return Info{
		Path:   path,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   st.Size(),
	}, nil
}
