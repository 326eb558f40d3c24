package desktop

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/pelletier/go-toml/v2"

	"github.com/gtheme/gtheme/internal/paths"
)

const (
	infoFile       = "info.toml"
	legacyInfoFile = "desktop_info.toml"
)

// Info is the descriptive metadata shipped with a desktop.
type Info struct {
	Author       string   `toml:"author"`
	Description  string   `toml:"description"`
	Credits      string   `toml:"credits"`
	Dependencies []string `toml:"dependencies"`
}

// LoadInfo reads <desktop>/info.toml, falling back to the legacy
// desktop_info.toml name. Missing or malformed files yield empty info.
func LoadInfo(desktopPath string, logger hclog.Logger) *Info {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	for _, name := range []string{infoFile, legacyInfoFile} {
		path := filepath.Join(desktopPath, name)
		data, err := os.ReadFile(path) // #nosec G304 - path inside an installed desktop
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			logger.Warn("could not read desktop info", "path", path, "error", err)
			return &Info{}
		}

		var info Info
		if err := toml.Unmarshal(data, &info); err != nil {
			logger.Warn("could not parse desktop info", "path", path, "error", err)
			return &Info{}
		}
		return &info
	}

	logger.Debug("desktop has no info file", "desktop", desktopPath)
	return &Info{}
}

// Save writes the info to <desktop>/info.toml.
func (i *Info) Save(desktopPath string) error {
	out := *i
	if out.Dependencies == nil {
		out.Dependencies = []string{}
	}

	data, err := toml.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode desktop info: %w", err)
	}
	return paths.WriteFile(filepath.Join(desktopPath, infoFile), data)
}
