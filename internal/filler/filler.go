// Package filler substitutes %role% placeholders in pattern content with
// theme colours.
package filler

import (
	"maps"
	"slices"
	"strings"

	"github.com/gtheme/gtheme/internal/paths"
	"github.com/gtheme/gtheme/internal/theme"
)

// ThemeNameRole resolves to the theme's name unless the palette defines it.
const ThemeNameRole = "theme-name"

// inverse maps the roles swapped when a pattern is inverted.
var inverse = map[string]string{
	"foreground":           "background",
	"background":           "foreground",
	"selection-foreground": "selection-background",
	"selection-background": "selection-foreground",
}

// Values builds the substitution map for a theme. Extra properties (user
// settings) are visible to patterns but never shadow a theme colour.
func Values(t *theme.Theme, properties map[string]string) map[string]string {
	values := make(map[string]string, len(properties)+len(t.Colors)+1)
	maps.Copy(values, properties)
	maps.Copy(values, t.Colors)
	if _, ok := t.Colors[ThemeNameRole]; !ok {
		values[ThemeNameRole] = t.Name
	}
	return values
}

// ResolveRole returns the value substituted for role. With inverted set, the
// foreground/background and selection pairs read each other's value.
func ResolveRole(values map[string]string, role string, inverted bool) (string, bool) {
	if inverted {
		if other, ok := inverse[role]; ok {
			role = other
		}
	}
	v, ok := values[role]
	return v, ok
}

// Fill replaces every %role% in content. Roles are substituted one at a time
// in sorted order with literal replace-all; placeholders for roles the
// values do not define are left untouched.
func Fill(content string, values map[string]string, inverted bool) string {
	roles := slices.Collect(maps.Keys(values))
	if inverted {
		for role := range inverse {
			if !slices.Contains(roles, role) {
				roles = append(roles, role)
			}
		}
	}
	slices.Sort(roles)

	for _, role := range roles {
		v, ok := ResolveRole(values, role, inverted)
		if !ok {
			continue
		}
		content = strings.ReplaceAll(content, "%"+role+"%", v)
	}
	return content
}

// Write stores filled content at path, creating parent directories.
func Write(path, content string) error {
	return paths.WriteFile(path, []byte(content))
}
