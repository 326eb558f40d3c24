package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/gtheme/gtheme/internal/theme"
)

// names is a Resolver over a fixed list of authored names.
type names []string

func (n names) Resolve(name string) (string, bool) {
	for _, v := range n {
		if strings.EqualFold(v, name) {
			return v, true
		}
	}
	return "", false
}

var (
	testThemes   = names{"Nord", "Dracula", "Gruvbox"}
	testDesktops = names{"Simple", "Cyberpunk"}
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoadGlobal_MissingAndMalformed(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		g := LoadGlobal(filepath.Join(dir, "missing.json"), testThemes, testDesktops, nil)
		if _, ok := g.CurrentDesktop(); ok {
			t.Error("expected no current desktop")
		}
		if len(g.Favs()) != 0 {
			t.Error("expected no favourites")
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		writeFile(t, path, `{"current_desktop": `)
		g := LoadGlobal(path, testThemes, testDesktops, nil)
		if _, ok := g.CurrentDesktop(); ok {
			t.Error("expected no current desktop")
		}
	})
}

func TestLoadGlobal_ResolvesNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global_config.json")
	writeFile(t, path, `{"current_desktop":"simple","current_theme":"NORD","fav_themes":["gruvbox","Gone","Nord","nord"]}`)

	g := LoadGlobal(path, testThemes, testDesktops, nil)

	if d, _ := g.CurrentDesktop(); d != "Simple" {
		t.Errorf("expected authored desktop name Simple, got %q", d)
	}
	if th, _ := g.CurrentTheme(); th != "Nord" {
		t.Errorf("expected authored theme name Nord, got %q", th)
	}
	if favs := g.Favs(); !slices.Equal(favs, []string{"Gruvbox", "Nord"}) {
		t.Errorf("unexpected favourites %v", favs)
	}
}

func TestLoadGlobal_DanglingCurrentTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global_config.json")
	writeFile(t, path, `{"current_desktop":"Simple","current_theme":"Gone","fav_themes":[]}`)

	g := LoadGlobal(path, testThemes, testDesktops, nil)
	if _, ok := g.CurrentTheme(); ok {
		t.Fatal("expected dangling current theme to be dropped")
	}
	if err := g.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if strings.Contains(string(data), "Gone") {
		t.Errorf("dangling theme survived save:\n%s", data)
	}
	if !strings.Contains(string(data), `"current_theme": null`) {
		t.Errorf("expected null current theme:\n%s", data)
	}
}

func TestLoadGlobal_DanglingCurrentDesktopClearsTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global_config.json")
	writeFile(t, path, `{"current_desktop":"Removed","current_theme":"Nord"}`)

	g := LoadGlobal(path, testThemes, testDesktops, nil)
	if _, ok := g.CurrentDesktop(); ok {
		t.Error("expected dangling desktop to be dropped")
	}
	if _, ok := g.CurrentTheme(); ok {
		t.Error("current theme must not outlive the current desktop")
	}
}

func TestGlobal_FavouritesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global_config.json")
	g := LoadGlobal(path, testThemes, testDesktops, nil)

	if err := g.AddFav("Nord"); err != nil {
		t.Fatalf("AddFav failed: %v", err)
	}
	if err := g.AddFav("Nord"); err != nil {
		t.Fatalf("second AddFav failed: %v", err)
	}
	if err := g.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := LoadGlobal(path, testThemes, testDesktops, nil)
	if favs := reloaded.Favs(); !slices.Equal(favs, []string{"Nord"}) {
		t.Errorf("expected [Nord], got %v", favs)
	}
}

func TestGlobal_FavouriteOperations(t *testing.T) {
	g := LoadGlobal(filepath.Join(t.TempDir(), "g.json"), testThemes, testDesktops, nil)

	t.Run("insertion order is preserved", func(t *testing.T) {
		for _, name := range []string{"Gruvbox", "nord", "Dracula"} {
			if err := g.AddFav(name); err != nil {
				t.Fatalf("AddFav(%s) failed: %v", name, err)
			}
		}
		if favs := g.Favs(); !slices.Equal(favs, []string{"Gruvbox", "Nord", "Dracula"}) {
			t.Errorf("unexpected order %v", favs)
		}
	})

	t.Run("unknown theme", func(t *testing.T) {
		if err := g.AddFav("Gone"); !errors.Is(err, theme.ErrNotFound) {
			t.Errorf("expected theme.ErrNotFound, got %v", err)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if !g.RemoveFav("NORD") {
			t.Error("expected RemoveFav to report removal")
		}
		if g.RemoveFav("Nord") {
			t.Error("second RemoveFav should be a no-op")
		}
		if g.IsFav("Nord") {
			t.Error("Nord should no longer be a favourite")
		}
	})

	t.Run("toggle twice is a no-op", func(t *testing.T) {
		before := g.Favs()
		if _, err := g.ToggleFav("Nord"); err != nil {
			t.Fatalf("ToggleFav failed: %v", err)
		}
		if _, err := g.ToggleFav("Nord"); err != nil {
			t.Fatalf("ToggleFav failed: %v", err)
		}
		if after := g.Favs(); !slices.Equal(before, after) {
			t.Errorf("toggle twice changed favourites: %v -> %v", before, after)
		}
	})
}

func TestGlobal_ToggleFavKeepsPosition(t *testing.T) {
	tests := []struct {
		name  string
		start []string
		theme string
	}{
		{name: "first of two", start: []string{"Nord", "Dracula"}, theme: "Nord"},
		{name: "middle of three", start: []string{"Gruvbox", "Nord", "Dracula"}, theme: "nord"},
		{name: "last", start: []string{"Nord", "Dracula"}, theme: "Dracula"},
		{name: "not a favourite", start: []string{"Nord"}, theme: "Dracula"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := LoadGlobal(filepath.Join(t.TempDir(), "g.json"), testThemes, testDesktops, nil)
			for _, name := range tt.start {
				if err := g.AddFav(name); err != nil {
					t.Fatalf("AddFav(%s) failed: %v", name, err)
				}
			}

			for range 2 {
				if _, err := g.ToggleFav(tt.theme); err != nil {
					t.Fatalf("ToggleFav failed: %v", err)
				}
			}
			if favs := g.Favs(); !slices.Equal(favs, tt.start) {
				t.Errorf("toggling %s twice: got %v, want %v", tt.theme, favs, tt.start)
			}
		})
	}
}

func TestGlobal_CurrentInvariant(t *testing.T) {
	g := LoadGlobal(filepath.Join(t.TempDir(), "g.json"), testThemes, testDesktops, nil)

	if err := g.SetCurrentTheme("Nord"); !errors.Is(err, ErrNoCurrentDesktop) {
		t.Errorf("expected ErrNoCurrentDesktop, got %v", err)
	}

	g.SetCurrent("Simple", "Nord")
	if err := g.SetCurrentTheme("Dracula"); err != nil {
		t.Fatalf("SetCurrentTheme failed: %v", err)
	}
	if th, _ := g.CurrentTheme(); th != "Dracula" {
		t.Errorf("expected Dracula, got %q", th)
	}

	g.ClearCurrent()
	if _, ok := g.CurrentTheme(); ok {
		t.Error("ClearCurrent should clear the theme")
	}
}

func TestUserSettings_SetUnsetSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_settings.toml")
	u := LoadUserSettings(path, nil)
	if u.Exists() {
		t.Fatal("settings file should not exist yet")
	}

	u.Set("TERMINAL", "kitty")
	u.Set("FONT", "Iosevka")
	if v, ok := u.Get("FONT"); !ok || v != "Iosevka" {
		t.Errorf("unexpected FONT %q ok=%v", v, ok)
	}
	if !u.Unset("TERMINAL") {
		t.Error("expected Unset to report removal")
	}
	if u.Unset("TERMINAL") {
		t.Error("second Unset should report absence")
	}

	if err := u.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !u.Exists() {
		t.Error("settings file should exist after Save")
	}

	reloaded := LoadUserSettings(path, nil)
	if !slices.Equal(reloaded.Environ(), []string{"FONT=Iosevka"}) {
		t.Errorf("unexpected environ %v", reloaded.Environ())
	}
}

func TestUserSettings_EncodingIsStable(t *testing.T) {
	dir := t.TempDir()

	a := LoadUserSettings(filepath.Join(dir, "a.toml"), nil)
	for _, k := range []string{"zeta", "alpha", "MID", "beta"} {
		a.Set(k, "v-"+k)
	}
	b := LoadUserSettings(filepath.Join(dir, "b.toml"), nil)
	for _, k := range []string{"beta", "MID", "zeta", "alpha"} {
		b.Set(k, "v-"+k)
	}

	encA, err := a.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	encB, err := b.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(encA, encB) {
		t.Errorf("encoding depends on insertion order:\n%s\n---\n%s", encA, encB)
	}

	lines := strings.Split(strings.TrimSpace(string(encA)), "\n")
	if lines[0] != "[properties]" {
		t.Errorf("expected [properties] header, got %q", lines[0])
	}
	keys := make([]string, 0, len(lines)-1)
	for _, l := range lines[1:] {
		keys = append(keys, strings.TrimSpace(strings.SplitN(l, "=", 2)[0]))
	}
	if !slices.IsSorted(keys) {
		t.Errorf("keys are not sorted: %v", keys)
	}
}

func TestUserSettings_FlatDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_settings.toml")
	writeFile(t, path, "FONT = \"Iosevka\"\nSIZE = 12\n")

	u := LoadUserSettings(path, nil)
	if v, _ := u.Get("FONT"); v != "Iosevka" {
		t.Errorf("unexpected FONT %q", v)
	}
	if v, _ := u.Get("SIZE"); v != "12" {
		t.Errorf("unexpected SIZE %q", v)
	}
}

func TestUserSettings_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_settings.toml")
	writeFile(t, path, "[properties\nbroken")

	if keys := LoadUserSettings(path, nil).Keys(); len(keys) != 0 {
		t.Errorf("expected empty settings, got %v", keys)
	}
}
