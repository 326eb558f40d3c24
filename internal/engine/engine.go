// Package engine applies themes to desktops: it fills every activated
// pattern with the theme's colours, writes the results and runs the
// desktop's post-scripts and extras around them.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/gtheme/gtheme/internal/config"
	"github.com/gtheme/gtheme/internal/desktop"
	"github.com/gtheme/gtheme/internal/paths"
	"github.com/gtheme/gtheme/internal/postscript"
	"github.com/gtheme/gtheme/internal/theme"
)

var (
	// ErrNoCurrentDesktop is returned when a theme is applied before any desktop.
	ErrNoCurrentDesktop = config.ErrNoCurrentDesktop

	// ErrNoTheme is returned when no theme is given and there is nothing to
	// fall back to (no default theme for a desktop, no current theme).
	ErrNoTheme = errors.New("no theme given and no theme to fall back to")
)

// Engine wires the stores, configuration and script runner of one gtheme
// home together. All state is explicit; nothing is process-wide.
type Engine struct {
	Layout   paths.Layout
	Themes   *theme.Store
	Desktops *desktop.Store
	Global   *config.Global
	Settings *config.UserSettings
	Runner   *postscript.Runner
	Logger   hclog.Logger
}

// New opens the gtheme home described by layout. proc may be nil to run
// scripts with os/exec.
func New(layout paths.Layout, proc postscript.ProcessRunner, logger hclog.Logger) *Engine {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	e := &Engine{
		Layout:   layout,
		Themes:   theme.NewStore(layout.Themes(), logger),
		Desktops: desktop.NewStore(layout.Desktops(), logger),
		Settings: config.LoadUserSettings(layout.UserSettings(), logger),
		Logger:   logger.Named("engine"),
	}
	e.Global = config.LoadGlobal(layout.GlobalConfig(), e.Themes, e.Desktops, logger)
	e.Runner = postscript.NewRunner(proc, e.Settings.Environ, logger)
	return e
}

// CurrentDesktop loads the desktop recorded as current.
func (e *Engine) CurrentDesktop() (*desktop.Desktop, error) {
	name, ok := e.Global.CurrentDesktop()
	if !ok {
		return nil, ErrNoCurrentDesktop
	}
	return e.LoadDesktop(name)
}

// LoadDesktop resolves and loads a desktop by name.
func (e *Engine) LoadDesktop(name string) (*desktop.Desktop, error) {
	ref, err := e.Desktops.ByName(name)
	if err != nil {
		return nil, err
	}
	return desktop.Load(ref, e.Desktops.Logger()), nil
}

// DesktopConfig loads the configuration of d.
func (e *Engine) DesktopConfig(d *desktop.Desktop) *desktop.Config {
	return desktop.LoadConfig(d, e.Themes, e.Desktops.Logger())
}

// configFor loads the configuration of d for an application; a dry run
// never creates the file.
func (e *Engine) configFor(d *desktop.Desktop, dryRun bool) *desktop.Config {
	if dryRun {
		return desktop.ReadConfig(d, e.Themes, e.Desktops.Logger())
	}
	return e.DesktopConfig(d)
}

// ThemeRequest describes a theme application on the current desktop.
type ThemeRequest struct {
	Theme string

	// Patterns, when non-nil, replaces the desktop's activation map for
	// this call: only the listed names are active.
	Patterns []string

	// Invert, when non-nil, flips the stored inversion of the listed names
	// for this call.
	Invert []string

	// DryRun fills patterns without writing files, running scripts or
	// saving state.
	DryRun bool
}

// ApplyTheme applies a theme to the current desktop. Per-pattern, wallpaper
// and extra failures are recorded in the result; only failing to resolve the
// desktop or theme, or to persist the new state, is returned as an error.
func (e *Engine) ApplyTheme(ctx context.Context, req ThemeRequest) (*Result, error) {
	d, err := e.CurrentDesktop()
	if err != nil {
		return nil, err
	}

	themeName := req.Theme
	if themeName == "" {
		var ok bool
		if themeName, ok = e.Global.CurrentTheme(); !ok {
			return nil, ErrNoTheme
		}
	}
	themeRef, err := e.Themes.ByName(themeName)
	if err != nil {
		return nil, err
	}
	th := e.Themes.Load(themeRef)

	cfg := e.configFor(d, req.DryRun)
	actived, inverted := Effective(cfg, req.Patterns, req.Invert)

	if req.DryRun {
		e.Logger.Info("applying theme in dry-run mode")
	}
	e.Logger.Info("applying theme", "theme", th.Name, "desktop", d.Name)

	res := &Result{Desktop: d.Name, Theme: th.Name, DryRun: req.DryRun}
	e.fillPatterns(ctx, d, th, actived, inverted, req.DryRun, res)
	e.applyWallpaper(ctx, d, th, actived, req.DryRun, res)
	e.startExtras(d, th, actived, req.DryRun, res)

	if req.DryRun || req.Patterns != nil {
		return res, nil
	}
	if err := e.Global.SetCurrentTheme(themeRef.Name); err != nil {
		return res, err
	}
	if err := e.Global.Save(); err != nil {
		return res, err
	}
	return res, nil
}

// DesktopRequest describes installing a desktop.
type DesktopRequest struct {
	Desktop string

	// Theme overrides the desktop's default theme when set.
	Theme string

	Patterns []string
	Invert   []string
	DryRun   bool
}

// ApplyDesktop makes a desktop current and applies a theme to it. The global
// configuration is saved before any script runs. The outgoing desktop's
// pre-install hook runs first; its dotfiles are then replaced by the
// incoming desktop's dotfiles and fonts before the theme pass. The outgoing
// desktop-exit hook and the incoming post-install hook follow the theme
// pass, and extras run last.
func (e *Engine) ApplyDesktop(ctx context.Context, req DesktopRequest) (*Result, error) {
	var previous *desktop.Desktop
	if name, ok := e.Global.CurrentDesktop(); ok {
		if d, err := e.LoadDesktop(name); err == nil {
			previous = d
		}
	}

	next, err := e.LoadDesktop(req.Desktop)
	if err != nil {
		return nil, err
	}
	cfg := e.configFor(next, req.DryRun)

	themeName := req.Theme
	if themeName == "" {
		var ok bool
		if themeName, ok = cfg.DefaultTheme(); !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoTheme, next.Name)
		}
	}
	themeRef, err := e.Themes.ByName(themeName)
	if err != nil {
		return nil, err
	}
	th := e.Themes.Load(themeRef)

	actived, inverted := Effective(cfg, req.Patterns, req.Invert)

	if req.DryRun {
		e.Logger.Info("installing desktop in dry-run mode", "desktop", next.Name)
	} else {
		e.Logger.Info("installing desktop", "desktop", next.Name, "theme", th.Name)
		e.Global.SetCurrent(next.Name, themeRef.Name)
		if err := e.Global.Save(); err != nil {
			return nil, err
		}
	}

	res := &Result{Desktop: next.Name, Theme: th.Name, DryRun: req.DryRun}

	previousPath := ""
	if previous != nil {
		previousPath = previous.Path
		if s, ok := previous.Scripts.PostScript(postscript.PreInstall); ok {
			e.runScript(ctx, s, req.DryRun, res, previous.Path, next.Path)
		}
	}

	e.installFiles(previous, next, req.DryRun, res)

	e.fillPatterns(ctx, next, th, actived, inverted, req.DryRun, res)
	e.applyWallpaper(ctx, next, th, actived, req.DryRun, res)

	if previous != nil {
		if s, ok := previous.Scripts.PostScript(postscript.DesktopExit); ok {
			e.runScript(ctx, s, req.DryRun, res)
		}
	}

	if s, ok := next.Scripts.PostScript(postscript.PostInstall); ok {
		e.runScript(ctx, s, req.DryRun, res, previousPath, next.Path)
	}

	e.startExtras(next, th, actived, req.DryRun, res)

	if previous == nil {
		res.RebootRequired = true
		e.Logger.Warn("first desktop installed, a reboot is required for every change to take effect", "desktop", next.Name)
	}
	return res, nil
}
