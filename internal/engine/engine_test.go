package engine

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/gtheme/gtheme/internal/desktop"
	"github.com/gtheme/gtheme/internal/paths"
	"github.com/gtheme/gtheme/internal/postscript"
	"github.com/gtheme/gtheme/internal/theme"
)

// fixture is a gtheme home populated with themes and desktops whose
// patterns write below out.
type fixture struct {
	t      *testing.T
	layout paths.Layout
	out    string
	mock   *postscript.MockProcessRunner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root, user := t.TempDir(), t.TempDir()
	f := &fixture{
		t:      t,
		layout: paths.NewLayout(root),
		out:    filepath.Join(t.TempDir(), "out"),
		mock:   postscript.NewMockProcessRunner(),
	}
	f.layout.ConfigHome = filepath.Join(user, ".config")
	f.layout.FontsHome = filepath.Join(user, "fonts", "gtheme-fonts")

	f.write(filepath.Join(f.layout.Themes(), "Nord.json"), `{
  "name": "Nord",
  "colors": { "background": "2e3440", "foreground": "d8dee9", "red": "bf616a" }
}`, 0o644)
	f.write(filepath.Join(f.layout.Themes(), "Dracula.json"), `{
  "name": "Dracula",
  "wallpaper": "~/wallpapers/dracula.png",
  "extras": { "bar": ["~/bars/main", "top"] },
  "colors": { "background": "282a36", "foreground": "f8f8f2", "red": "ff5555" }
}`, 0o644)
	return f
}

func (f *fixture) write(path, content string, perm os.FileMode) {
	f.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		f.t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		f.t.Fatalf("failed to write %s: %v", path, err)
	}
}

func (f *fixture) desktopDir(name string) string {
	return filepath.Join(f.layout.Desktops(), name)
}

// addPattern writes a pattern whose output lands in f.out/<desktop>/<file>.
func (f *fixture) addPattern(desktopName, rel, body string) string {
	output := filepath.Join(f.out, desktopName, strings.ReplaceAll(rel, "/", "_")+".out")
	f.write(filepath.Join(f.desktopDir(desktopName), "gtheme", "patterns", rel), "%output-file%="+output+"\n"+body, 0o644)
	return output
}

func (f *fixture) addScript(desktopName, kind, name string) string {
	path := filepath.Join(f.desktopDir(desktopName), "gtheme", kind, name+".sh")
	f.write(path, "#!/bin/sh\n", 0o755)
	return path
}

func (f *fixture) setConfig(desktopName, content string) {
	f.write(desktop.ConfigPath(f.desktopDir(desktopName)), content, 0o644)
}

func (f *fixture) setGlobal(content string) {
	f.write(f.layout.GlobalConfig(), content, 0o644)
}

func (f *fixture) engine() *Engine {
	return New(f.layout, f.mock, nil)
}

func (f *fixture) read(path string) string {
	f.t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		f.t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func (f *fixture) globalDoc() map[string]any {
	f.t.Helper()
	var doc map[string]any
	if err := json.Unmarshal([]byte(f.read(f.layout.GlobalConfig())), &doc); err != nil {
		f.t.Fatalf("failed to parse global config: %v", err)
	}
	return doc
}

// scriptCalls returns the names of the scripts the mock ran, in order.
func (f *fixture) scriptCalls() []string {
	names := make([]string, 0, len(f.mock.Calls))
	for _, c := range f.mock.Calls {
		names = append(names, paths.StripExt(c.Path))
	}
	return names
}

func TestApplyTheme_FillWithInversion(t *testing.T) {
	f := newFixture(t)
	out := f.addPattern("simple", "P", "fg=%foreground% bg=%background%")
	f.addScript("simple", "post-scripts", "P")
	f.setConfig("simple", `{"actived":{"P":true},"inverted":{"P":true}}`)
	f.setGlobal(`{"current_desktop":"simple","current_theme":null,"fav_themes":[]}`)

	res, err := f.engine().ApplyTheme(context.Background(), ThemeRequest{Theme: "Nord"})
	if err != nil {
		t.Fatalf("ApplyTheme failed: %v", err)
	}

	if got := f.read(out); got != "fg=2e3440 bg=d8dee9" {
		t.Errorf("unexpected output %q", got)
	}
	if f.mock.CallCount != 1 || !slices.Equal(f.mock.LastArgs, []string{out}) {
		t.Errorf("expected post-script with output path, got %+v", f.mock.Calls)
	}
	if len(res.Failures) != 0 {
		t.Errorf("unexpected failures %+v", res.Failures)
	}
	if doc := f.globalDoc(); doc["current_theme"] != "Nord" {
		t.Errorf("expected current theme to be persisted, got %v", doc["current_theme"])
	}
}

func TestApplyTheme_PatternOverride(t *testing.T) {
	f := newFixture(t)
	outA := f.addPattern("simple", "A", "a=%red%")
	outB := f.addPattern("simple", "B", "b=%red%")
	f.setConfig("simple", `{"actived":{"A":true,"B":true},"inverted":{}}`)
	f.setGlobal(`{"current_desktop":"simple","current_theme":"Dracula","fav_themes":[]}`)

	_, err := f.engine().ApplyTheme(context.Background(), ThemeRequest{Theme: "Nord", Patterns: []string{"A"}})
	if err != nil {
		t.Fatalf("ApplyTheme failed: %v", err)
	}

	if got := f.read(outA); got != "a=bf616a" {
		t.Errorf("unexpected A output %q", got)
	}
	if _, err := os.Stat(outB); !os.IsNotExist(err) {
		t.Error("B must not be written when not listed in the override")
	}
	if doc := f.globalDoc(); doc["current_theme"] != "Dracula" {
		t.Errorf("pattern override must not persist the theme, got %v", doc["current_theme"])
	}
}

func TestApplyTheme_InvertOverrideTogglesStored(t *testing.T) {
	f := newFixture(t)
	outA := f.addPattern("simple", "A", "%foreground%")
	outB := f.addPattern("simple", "B", "%foreground%")
	f.setConfig("simple", `{"actived":{"A":true,"B":true},"inverted":{"A":true}}`)
	f.setGlobal(`{"current_desktop":"simple"}`)

	_, err := f.engine().ApplyTheme(context.Background(), ThemeRequest{Theme: "Nord", Invert: []string{"a", "B"}})
	if err != nil {
		t.Fatalf("ApplyTheme failed: %v", err)
	}
	if got := f.read(outA); got != "d8dee9" {
		t.Errorf("A was inverted and the override should flip it back, got %q", got)
	}
	if got := f.read(outB); got != "2e3440" {
		t.Errorf("B should be inverted by the override, got %q", got)
	}
}

func TestApplyTheme_MissingDirectiveIsSkipped(t *testing.T) {
	f := newFixture(t)
	f.write(filepath.Join(f.desktopDir("simple"), "gtheme", "patterns", "broken"), "%foreground%", 0o644)
	good := f.addPattern("simple", "good", "%background%")
	f.setConfig("simple", `{"actived":{"broken":true,"good":true},"inverted":{}}`)
	f.setGlobal(`{"current_desktop":"simple"}`)

	res, err := f.engine().ApplyTheme(context.Background(), ThemeRequest{Theme: "Nord"})
	if err != nil {
		t.Fatalf("ApplyTheme should succeed, got %v", err)
	}
	if got := f.read(good); got != "2e3440" {
		t.Errorf("unexpected output %q", got)
	}
	if len(res.Failures) != 1 || res.Failures[0].Name != "broken" {
		t.Fatalf("expected one failure for broken, got %+v", res.Failures)
	}
	if res.Err() == nil {
		t.Error("expected Result.Err to report the failure")
	}
}

func TestApplyTheme_UnknownRoleAndParents(t *testing.T) {
	f := newFixture(t)
	out := f.addPattern("simple", "deep", "%red% %cyan% %theme-name%")
	f.setConfig("simple", `{"actived":{"deep":true},"inverted":{}}`)
	f.setGlobal(`{"current_desktop":"simple"}`)

	if _, err := f.engine().ApplyTheme(context.Background(), ThemeRequest{Theme: "nord"}); err != nil {
		t.Fatalf("ApplyTheme failed: %v", err)
	}
	if got := f.read(out); got != "bf616a %cyan% Nord" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestApplyTheme_Idempotent(t *testing.T) {
	f := newFixture(t)
	out := f.addPattern("simple", "kitty", "bg=#%background%\nfg=#%foreground%\n")
	f.setConfig("simple", `{"actived":{"kitty":true},"inverted":{}}`)
	f.setGlobal(`{"current_desktop":"simple"}`)
	e := f.engine()

	if _, err := e.ApplyTheme(context.Background(), ThemeRequest{Theme: "Nord"}); err != nil {
		t.Fatal(err)
	}
	first := f.read(out)
	if _, err := e.ApplyTheme(context.Background(), ThemeRequest{Theme: "Nord"}); err != nil {
		t.Fatal(err)
	}
	if second := f.read(out); second != first {
		t.Errorf("outputs differ between runs:\n%q\n%q", first, second)
	}
}

func TestApplyTheme_WallpaperRequiresExplicitBit(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name    string
		config  string
		wantRun bool
	}{
		{"activated", `{"actived":{"wallpaper":true},"inverted":{}}`, true},
		{"missing bit", `{"actived":{},"inverted":{}}`, false},
		{"disabled", `{"actived":{"wallpaper":false},"inverted":{}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.addScript("simple", "post-scripts", "wallpaper")
			f.setConfig("simple", tt.config)
			f.setGlobal(`{"current_desktop":"simple"}`)

			if _, err := f.engine().ApplyTheme(context.Background(), ThemeRequest{Theme: "Dracula"}); err != nil {
				t.Fatalf("ApplyTheme failed: %v", err)
			}

			ran := slices.Contains(f.scriptCalls(), "wallpaper")
			if ran != tt.wantRun {
				t.Fatalf("wallpaper ran = %v, want %v", ran, tt.wantRun)
			}
			if ran && !slices.Equal(f.mock.LastArgs, []string{filepath.Join(home, "wallpapers/dracula.png")}) {
				t.Errorf("unexpected wallpaper args %v", f.mock.LastArgs)
			}
		})
	}
}

func TestApplyTheme_ExtrasReceiveThemeArguments(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	f := newFixture(t)
	f.addScript("simple", "extras", "bar")
	f.addScript("simple", "extras", "off")
	f.setConfig("simple", `{"actived":{"bar":true,"off":false},"inverted":{}}`)
	f.setGlobal(`{"current_desktop":"simple"}`)

	if _, err := f.engine().ApplyTheme(context.Background(), ThemeRequest{Theme: "Dracula"}); err != nil {
		t.Fatalf("ApplyTheme failed: %v", err)
	}

	if f.mock.CallCount != 1 {
		t.Fatalf("expected only the active extra to run, got %+v", f.mock.Calls)
	}
	call := f.mock.Calls[0]
	if !call.Detached {
		t.Error("extras must not be waited for")
	}
	if !slices.Equal(call.Args, []string{filepath.Join(home, "bars/main"), "top"}) {
		t.Errorf("unexpected extra args %v", call.Args)
	}
}

func TestApplyTheme_ModuleRunsGroupPostScript(t *testing.T) {
	f := newFixture(t)
	outA := f.addPattern("simple", "polybar/bar", "%background%")
	outB := f.addPattern("simple", "polybar/colors", "%foreground%")
	f.addScript("simple", "post-scripts", "polybar")
	f.setConfig("simple", `{"actived":{"polybar":true},"inverted":{"polybar":true}}`)
	f.setGlobal(`{"current_desktop":"simple"}`)

	if _, err := f.engine().ApplyTheme(context.Background(), ThemeRequest{Theme: "Nord"}); err != nil {
		t.Fatalf("ApplyTheme failed: %v", err)
	}
	if got := f.read(outA); got != "d8dee9" {
		t.Errorf("module inversion not applied, got %q", got)
	}
	if f.mock.CallCount != 1 || !slices.Equal(f.mock.LastArgs, []string{outA, outB}) {
		t.Errorf("expected one polybar post-script run with both outputs, got %+v", f.mock.Calls)
	}
}

func TestApplyTheme_DryRun(t *testing.T) {
	f := newFixture(t)
	out := f.addPattern("simple", "kitty", "%background%")
	f.addScript("simple", "post-scripts", "kitty")
	f.addScript("simple", "extras", "bar")
	f.setConfig("simple", `{"actived":{"kitty":true,"bar":true},"inverted":{}}`)
	f.setGlobal(`{"current_desktop":"simple","current_theme":"Dracula"}`)

	res, err := f.engine().ApplyTheme(context.Background(), ThemeRequest{Theme: "Nord", DryRun: true})
	if err != nil {
		t.Fatalf("ApplyTheme failed: %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("dry run must not write outputs")
	}
	if f.mock.CallCount != 0 {
		t.Errorf("dry run must not run scripts, got %+v", f.mock.Calls)
	}
	if !slices.Equal(res.Written, []string{out}) || !slices.Equal(res.Ran, []string{"kitty", "bar"}) {
		t.Errorf("dry run should report planned work, got %+v", res)
	}
	if doc := f.globalDoc(); doc["current_theme"] != "Dracula" {
		t.Errorf("dry run must not persist state, got %v", doc["current_theme"])
	}
}

func TestApplyTheme_RecordsStoreName(t *testing.T) {
	f := newFixture(t)
	f.write(filepath.Join(f.layout.Themes(), "dracula-pro.json"),
		`{"name":"Dracula Pro","colors":{"background":"22212c"}}`, 0o644)
	out := f.addPattern("D", "kitty", "%background%")
	f.setConfig("D", `{"default_theme":"Nord","actived":{"kitty":true},"inverted":{}}`)

	if _, err := f.engine().ApplyDesktop(context.Background(), DesktopRequest{Desktop: "D", Theme: "dracula-pro"}); err != nil {
		t.Fatalf("ApplyDesktop failed: %v", err)
	}
	if doc := f.globalDoc(); doc["current_theme"] != "dracula-pro" {
		t.Errorf("ApplyDesktop recorded %v, want the theme file name", doc["current_theme"])
	}

	res, err := f.engine().ApplyTheme(context.Background(), ThemeRequest{Theme: "Dracula-Pro"})
	if err != nil {
		t.Fatalf("ApplyTheme failed: %v", err)
	}
	if res.Theme != "Dracula Pro" {
		t.Errorf("result should carry the display name, got %q", res.Theme)
	}

	e := f.engine()
	current, ok := e.Global.CurrentTheme()
	if !ok || current != "dracula-pro" {
		t.Fatalf("current theme after reload = %q, %v", current, ok)
	}
	ref, err := e.Themes.ByName("dracula-pro")
	if err != nil {
		t.Fatal(err)
	}
	if !e.IsActive(ThemeItem(ref), nil) {
		t.Error("reloaded engine should report the applied theme as active")
	}

	if _, err := e.ApplyTheme(context.Background(), ThemeRequest{}); err != nil {
		t.Fatalf("re-applying the current theme failed: %v", err)
	}
	if got := f.read(out); got != "22212c" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestApplyTheme_Errors(t *testing.T) {
	f := newFixture(t)
	f.addPattern("simple", "kitty", "%background%")

	t.Run("no current desktop", func(t *testing.T) {
		_, err := f.engine().ApplyTheme(context.Background(), ThemeRequest{Theme: "Nord"})
		if !errors.Is(err, ErrNoCurrentDesktop) {
			t.Errorf("expected ErrNoCurrentDesktop, got %v", err)
		}
	})

	t.Run("unknown theme", func(t *testing.T) {
		f.setGlobal(`{"current_desktop":"simple"}`)
		_, err := f.engine().ApplyTheme(context.Background(), ThemeRequest{Theme: "Gone"})
		if !errors.Is(err, theme.ErrNotFound) {
			t.Errorf("expected theme.ErrNotFound, got %v", err)
		}
	})

	t.Run("no theme to fall back to", func(t *testing.T) {
		f.setGlobal(`{"current_desktop":"simple"}`)
		_, err := f.engine().ApplyTheme(context.Background(), ThemeRequest{})
		if !errors.Is(err, ErrNoTheme) {
			t.Errorf("expected ErrNoTheme, got %v", err)
		}
	})
}

func TestApplyDesktop_FirstTime(t *testing.T) {
	f := newFixture(t)
	out := f.addPattern("D", "kitty", "%background%")
	f.addScript("D", "post-scripts", "kitty")
	f.setConfig("D", `{"default_theme":"Nord","actived":{"kitty":true},"inverted":{}}`)

	var seen map[string]any
	f.mock.RunFunc = func(ctx context.Context, path string, args, env []string) ([]byte, []byte, error) {
		if seen == nil {
			seen = f.globalDoc()
		}
		return nil, nil, nil
	}

	res, err := f.engine().ApplyDesktop(context.Background(), DesktopRequest{Desktop: "d"})
	if err != nil {
		t.Fatalf("ApplyDesktop failed: %v", err)
	}

	if seen["current_desktop"] != "D" || seen["current_theme"] != "Nord" {
		t.Errorf("global config must be written before scripts run, saw %v", seen)
	}
	if !res.RebootRequired {
		t.Error("expected reboot warning on first desktop install")
	}
	if got := f.read(out); got != "2e3440" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestApplyDesktop_HookOrdering(t *testing.T) {
	f := newFixture(t)
	f.addPattern("old", "kitty", "%background%")
	f.addScript("old", "post-scripts", "pre-install")
	f.setConfig("old", `{"actived":{},"inverted":{}}`)

	f.addPattern("new", "alacritty", "%background%")
	f.addPattern("new", "kitty", "%background%")
	f.addScript("new", "post-scripts", "alacritty")
	f.addScript("new", "post-scripts", "kitty")
	f.addScript("new", "post-scripts", "post-install")
	f.addScript("new", "extras", "bar")
	f.setConfig("new", `{"default_theme":"Dracula","actived":{"alacritty":true,"kitty":true,"bar":true},"inverted":{}}`)
	f.setGlobal(`{"current_desktop":"old","current_theme":"Nord"}`)

	res, err := f.engine().ApplyDesktop(context.Background(), DesktopRequest{Desktop: "new", Theme: "Nord"})
	if err != nil {
		t.Fatalf("ApplyDesktop failed: %v", err)
	}

	want := []string{"pre-install", "alacritty", "kitty", "post-install", "bar"}
	if got := f.scriptCalls(); !slices.Equal(got, want) {
		t.Fatalf("script order = %v, want %v", got, want)
	}

	oldPath, newPath := f.desktopDir("old"), f.desktopDir("new")
	if args := f.mock.Calls[0].Args; !slices.Equal(args, []string{oldPath, newPath}) {
		t.Errorf("unexpected pre-install args %v", args)
	}
	if args := f.mock.Calls[3].Args; !slices.Equal(args, []string{oldPath, newPath}) {
		t.Errorf("unexpected post-install args %v", args)
	}
	if res.RebootRequired {
		t.Error("no reboot needed when switching desktops")
	}
	if res.Theme != "Nord" {
		t.Errorf("theme override ignored, got %q", res.Theme)
	}
	if doc := f.globalDoc(); doc["current_desktop"] != "new" || doc["current_theme"] != "Nord" {
		t.Errorf("unexpected global config %v", doc)
	}
}

func TestApplyDesktop_InstallsDotfilesAndFonts(t *testing.T) {
	f := newFixture(t)
	f.addScript("old", "post-scripts", "pre-install")
	f.addScript("old", "post-scripts", "desktop-exit")
	f.write(filepath.Join(f.desktopDir("old"), ".config", "polybar", "config.ini"), "old", 0o644)
	f.setConfig("old", `{"actived":{},"inverted":{}}`)

	f.addPattern("new", "kitty", "%background%")
	f.addScript("new", "post-scripts", "kitty")
	f.addScript("new", "post-scripts", "post-install")
	f.write(filepath.Join(f.desktopDir("new"), ".config", "kitty", "kitty.conf"), "include colors.conf", 0o644)
	f.write(filepath.Join(f.desktopDir("new"), ".config", "starship.toml"), "format = '$all'", 0o644)
	f.write(filepath.Join(f.desktopDir("new"), "fonts", "Iosevka.ttf"), "font", 0o644)
	f.setConfig("new", `{"default_theme":"Nord","actived":{"kitty":true},"inverted":{}}`)
	f.setGlobal(`{"current_desktop":"old","current_theme":"Nord"}`)

	home := f.layout.ConfigHome
	f.write(filepath.Join(home, "polybar", "config.ini"), "installed by old", 0o644)
	f.write(filepath.Join(home, "kitty", "stale.conf"), "stale", 0o644)
	f.write(filepath.Join(home, "nvim", "init.lua"), "unrelated", 0o644)

	res, err := f.engine().ApplyDesktop(context.Background(), DesktopRequest{Desktop: "new"})
	if err != nil {
		t.Fatalf("ApplyDesktop failed: %v", err)
	}
	if len(res.Failures) != 0 {
		t.Fatalf("unexpected failures %v", res.Err())
	}

	want := []string{"pre-install", "kitty", "desktop-exit", "post-install"}
	if got := f.scriptCalls(); !slices.Equal(got, want) {
		t.Errorf("script order = %v, want %v", got, want)
	}
	if exit := f.mock.Calls[2]; len(exit.Args) != 0 {
		t.Errorf("desktop-exit should run without arguments, got %v", exit.Args)
	}

	for _, gone := range []string{"polybar", filepath.Join("kitty", "stale.conf")} {
		if _, err := os.Stat(filepath.Join(home, gone)); !os.IsNotExist(err) {
			t.Errorf("%s should have been cleaned", gone)
		}
	}
	if got := f.read(filepath.Join(home, "nvim", "init.lua")); got != "unrelated" {
		t.Errorf("files no desktop ships must be kept, got %q", got)
	}
	if got := f.read(filepath.Join(home, "kitty", "kitty.conf")); got != "include colors.conf" {
		t.Errorf("unexpected kitty.conf %q", got)
	}
	if got := f.read(filepath.Join(f.layout.FontsHome, "Iosevka.ttf")); got != "font" {
		t.Errorf("unexpected font %q", got)
	}

	wantInstalled := []string{
		filepath.Join(home, "kitty"),
		filepath.Join(home, "starship.toml"),
		filepath.Join(f.layout.FontsHome, "Iosevka.ttf"),
	}
	if !slices.Equal(res.Installed, wantInstalled) {
		t.Errorf("Installed = %v, want %v", res.Installed, wantInstalled)
	}
}

func TestApplyDesktop_DryRunTouchesNothing(t *testing.T) {
	f := newFixture(t)
	out := f.addPattern("new", "kitty", "%background%")
	f.addScript("new", "post-scripts", "post-install")
	f.write(filepath.Join(f.desktopDir("new"), ".config", "kitty", "kitty.conf"), "conf", 0o644)
	f.write(filepath.Join(f.desktopDir("new"), "fonts", "Iosevka.ttf"), "font", 0o644)

	res, err := f.engine().ApplyDesktop(context.Background(), DesktopRequest{Desktop: "new", Theme: "Nord", DryRun: true})
	if err != nil {
		t.Fatalf("ApplyDesktop failed: %v", err)
	}

	for _, path := range []string{
		desktop.ConfigPath(f.desktopDir("new")),
		f.layout.GlobalConfig(),
		f.layout.ConfigHome,
		f.layout.FontsHome,
		out,
	} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("dry run created %s", path)
		}
	}
	if f.mock.CallCount != 0 {
		t.Errorf("dry run ran scripts: %+v", f.mock.Calls)
	}
	wantInstalled := []string{
		filepath.Join(f.layout.ConfigHome, "kitty"),
		filepath.Join(f.layout.FontsHome, "Iosevka.ttf"),
	}
	if !slices.Equal(res.Installed, wantInstalled) || !slices.Equal(res.Written, []string{out}) {
		t.Errorf("dry run should report planned work, got %+v", res)
	}
}

func TestApplyDesktop_PostInstallWithoutPrevious(t *testing.T) {
	f := newFixture(t)
	f.addScript("new", "post-scripts", "post-install")
	f.setConfig("new", `{"default_theme":"Nord","actived":{},"inverted":{}}`)

	if _, err := f.engine().ApplyDesktop(context.Background(), DesktopRequest{Desktop: "new"}); err != nil {
		t.Fatalf("ApplyDesktop failed: %v", err)
	}
	if !slices.Equal(f.mock.LastArgs, []string{"", f.desktopDir("new")}) {
		t.Errorf("unexpected post-install args %v", f.mock.LastArgs)
	}
}

func TestApplyDesktop_Errors(t *testing.T) {
	f := newFixture(t)
	f.addPattern("plain", "kitty", "%background%")
	f.setConfig("plain", `{"actived":{"kitty":true},"inverted":{}}`)

	t.Run("unknown desktop", func(t *testing.T) {
		_, err := f.engine().ApplyDesktop(context.Background(), DesktopRequest{Desktop: "gone", Theme: "Nord"})
		if !errors.Is(err, desktop.ErrNotFound) {
			t.Errorf("expected desktop.ErrNotFound, got %v", err)
		}
	})

	t.Run("no default theme", func(t *testing.T) {
		_, err := f.engine().ApplyDesktop(context.Background(), DesktopRequest{Desktop: "plain"})
		if !errors.Is(err, ErrNoTheme) {
			t.Errorf("expected ErrNoTheme, got %v", err)
		}
		if _, statErr := os.Stat(f.layout.GlobalConfig()); !os.IsNotExist(statErr) {
			t.Error("a failed resolution must not write global config")
		}
	})
}

func TestItem(t *testing.T) {
	f := newFixture(t)
	f.addPattern("simple", "kitty", "%background%")
	f.addScript("simple", "extras", "bar")
	f.setConfig("simple", `{"actived":{"kitty":true},"inverted":{}}`)
	f.setGlobal(`{"current_desktop":"simple","current_theme":"Nord"}`)
	e := f.engine()

	d, err := e.CurrentDesktop()
	if err != nil {
		t.Fatal(err)
	}
	cfg := e.DesktopConfig(d)
	nord, _ := e.Themes.ByName("Nord")
	dracula, _ := e.Themes.ByName("Dracula")
	bar, _ := d.Scripts.Extra("bar")

	items := []struct {
		item   Item
		active bool
		path   string
	}{
		{DesktopItem(d.Ref()), true, d.Path},
		{ThemeItem(nord), true, nord.Path},
		{ThemeItem(dracula), false, dracula.Path},
		{PatternItem(d.Tree[0]), true, d.Tree[0].Path},
		{ExtraItem(bar), false, bar.Path},
		{HelpItem("press q to quit"), false, ""},
	}
	for _, tt := range items {
		t.Run(tt.item.Kind.String()+"/"+tt.item.Name(), func(t *testing.T) {
			if got := e.IsActive(tt.item, cfg); got != tt.active {
				t.Errorf("IsActive = %v, want %v", got, tt.active)
			}
			if got := tt.item.Path(); got != tt.path {
				t.Errorf("Path = %q, want %q", got, tt.path)
			}
		})
	}

	t.Run("apply toggles extras", func(t *testing.T) {
		if _, err := e.ApplyItem(context.Background(), ExtraItem(bar), false); err != nil {
			t.Fatalf("ApplyItem failed: %v", err)
		}
		if !e.DesktopConfig(d).IsActive("bar") {
			t.Error("expected bar to be enabled")
		}
	})

	t.Run("help has no action", func(t *testing.T) {
		res, err := e.ApplyItem(context.Background(), HelpItem("x"), false)
		if res != nil || err != nil {
			t.Errorf("expected no-op, got %v, %v", res, err)
		}
	})
}
