// Package pattern loads desktop pattern templates. A pattern is a text file
// carrying one %output-file%=<path> directive and any number of %role%
// placeholders; a directory of patterns forms a module that is applied as a
// unit under the directory's name.
package pattern

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/gtheme/gtheme/internal/paths"
)

var (
	// ErrNoOutputDirective is returned for pattern files without an output directive.
	ErrNoOutputDirective = errors.New("pattern does not have an output file specified (hint: %output-file%=/path/to/output/file)")

	// ErrNotFound is returned when a pattern name does not resolve.
	ErrNotFound = errors.New("pattern not found")
)

// Directive is the marker that declares a pattern's output path.
const Directive = "%output-file%="

var directiveRe = regexp.MustCompile(`%output-file%=([^\r\n]*)(\r\n|\n|\r)?`)

// Pattern is a loaded pattern file ready to be filled.
type Pattern struct {
	// Name is the file name without extension.
	Name string
	// Group is the top-level name the pattern is activated under. It equals
	// Name unless the pattern lives inside a module directory.
	Group      string
	SourcePath string
	OutputPath string
	// Content is the template text with the directive line removed.
	Content string
}

// Ref is an entry of a desktop's pattern tree.
type Ref struct {
	Name     string
	Group    string
	Path     string
	Module   bool
	Children []Ref
}

// Dir returns the patterns directory of a desktop.
func Dir(desktopPath string) string {
	return filepath.Join(desktopPath, "gtheme", "patterns")
}

// List returns the pattern tree of a desktop in case-insensitive name order.
// Hidden entries are ignored.
func List(desktopPath string, logger hclog.Logger) []Ref {
	return listDir(Dir(desktopPath), "", logger)
}

func listDir(dir, group string, logger hclog.Logger) []Ref {
	entries, err := paths.ReadDir(dir, logger)
	if err != nil {
		return nil
	}

	refs := make([]Ref, 0, len(entries))
	for _, e := range entries {
		if paths.IsHidden(e.Name) {
			continue
		}

		name := e.Name
		if !e.IsDir {
			name = paths.StripExt(e.Name)
		}
		g := group
		if g == "" {
			g = name
		}

		ref := Ref{Name: name, Group: g, Path: e.Path, Module: e.IsDir}
		if e.IsDir {
			ref.Children = listDir(e.Path, g, logger)
		}
		refs = append(refs, ref)
	}
	return refs
}

// Flatten returns the pattern files of refs depth-first, in tree order.
func Flatten(refs []Ref) []Ref {
	var out []Ref
	for _, r := range refs {
		if r.Module {
			out = append(out, Flatten(r.Children)...)
			continue
		}
		out = append(out, r)
	}
	return out
}

// ByName resolves a top-level pattern or module by case-insensitive name.
func ByName(refs []Ref, name string) (Ref, error) {
	for _, r := range refs {
		if strings.EqualFold(r.Name, name) {
			return r, nil
		}
	}
	return Ref{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Load reads and parses a pattern file.
func Load(ref Ref) (*Pattern, error) {
	if ref.Module {
		return nil, fmt.Errorf("pattern %q is a module directory", ref.Name)
	}

	data, err := os.ReadFile(ref.Path) // #nosec G304 - pattern path comes from the desktop listing
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern %q: %w", ref.Name, err)
	}

	output, content, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", ref.Name, err)
	}

	group := ref.Group
	if group == "" {
		group = ref.Name
	}

	return &Pattern{
		Name:       ref.Name,
		Group:      group,
		SourcePath: ref.Path,
		OutputPath: paths.Expand(output),
		Content:    content,
	}, nil
}

// Parse extracts the first output directive from content and returns the
// unexpanded output path and the content with the directive line removed.
func Parse(content string) (output, stripped string, err error) {
	loc := directiveRe.FindStringSubmatchIndex(content)
	if loc == nil {
		return "", "", ErrNoOutputDirective
	}

	output = strings.TrimSpace(content[loc[2]:loc[3]])
	if output == "" {
		return "", "", ErrNoOutputDirective
	}

	// Remove the whole line so comment prefixes like "# " go with it.
	lineStart := strings.LastIndexAny(content[:loc[0]], "\r\n") + 1
	stripped = content[:lineStart] + content[loc[1]:]

	return output, stripped, nil
}
