package theme

import "maps"

// StandardRoles lists the roles a new theme skeleton is created with.
var StandardRoles = []string{
	"background",
	"foreground",
	"cursor",
	"selection-background",
	"selection-foreground",
	"black",
	"black-hg",
	"red",
	"red-hg",
	"green",
	"green-hg",
	"yellow",
	"yellow-hg",
	"blue",
	"blue-hg",
	"magenta",
	"magenta-hg",
	"cyan",
	"cyan-hg",
	"white",
	"white-hg",
}

// nord is the fallback palette.
var nord = map[string]string{
	"background":           "2e3440",
	"foreground":           "d8dee9",
	"cursor":               "d8dee9",
	"selection-background": "e5e8f0",
	"selection-foreground": "2e3440",
	"black":                "3b4252",
	"black-hg":             "4c566a",
	"red":                  "bf616a",
	"red-hg":               "bf616a",
	"green":                "a3be8c",
	"green-hg":             "a3be8c",
	"yellow":               "ebcb8b",
	"yellow-hg":            "ebcb8b",
	"blue":                 "81a1c1",
	"blue-hg":              "81a1c1",
	"magenta":              "b48ead",
	"magenta-hg":           "b48ead",
	"cyan":                 "88c0d0",
	"cyan-hg":              "8fbcbb",
	"white":                "e5e8f0",
	"white-hg":             "eceff4",
}

// Default returns the Nord palette under the given name. It is the only
// built-in theme and is used whenever a theme file cannot be loaded.
func Default(name string) *Theme {
	return &Theme{
		Name:   name,
		Colors: maps.Clone(nord),
		Extras: map[string][]string{},
	}
}
