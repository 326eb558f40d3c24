package engine

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/gtheme/gtheme/internal/desktop"
	"github.com/gtheme/gtheme/internal/filler"
	"github.com/gtheme/gtheme/internal/paths"
	"github.com/gtheme/gtheme/internal/pattern"
	"github.com/gtheme/gtheme/internal/postscript"
	"github.com/gtheme/gtheme/internal/theme"
)

// fillPatterns fills and writes every activated top-level pattern or module
// in order. After a pattern's outputs are written, the post-script of the
// same name runs with those output paths as its arguments.
func (e *Engine) fillPatterns(ctx context.Context, d *desktop.Desktop, th *theme.Theme, actived, inverted Switches, dryRun bool, res *Result) {
	values := filler.Values(th, e.Settings.Properties())

	for _, top := range d.Tree {
		if !actived.Get(top.Name) {
			e.Logger.Debug("pattern disabled", "pattern", top.Name)
			res.Skipped = append(res.Skipped, top.Name)
			continue
		}

		invert := inverted.Get(top.Name)
		var outputs []string
		for _, ref := range pattern.Flatten([]pattern.Ref{top}) {
			if out, ok := e.fillPattern(ref, values, invert, th.Name, dryRun, res); ok {
				outputs = append(outputs, out)
			}
		}

		if len(outputs) == 0 {
			continue
		}
		if s, ok := d.Scripts.PostScript(top.Name); ok && !postscript.IsReserved(s.Name) {
			e.runScript(ctx, s, dryRun, res, outputs...)
		}
	}
}

func (e *Engine) fillPattern(ref pattern.Ref, values map[string]string, invert bool, themeName string, dryRun bool, res *Result) (string, bool) {
	p, err := pattern.Load(ref)
	if err != nil {
		if errors.Is(err, pattern.ErrNoOutputDirective) {
			e.Logger.Warn("skipping pattern without output directive", "pattern", ref.Name, "path", ref.Path)
		} else {
			e.Logger.Error("could not load pattern", "pattern", ref.Name, "error", err)
		}
		res.fail(ref.Name, err)
		return "", false
	}

	e.Logger.Info("filling pattern", "pattern", p.Name, "theme", themeName, "inverted", invert)
	content := filler.Fill(p.Content, values, invert)

	if dryRun {
		e.Logger.Debug("dry-run: not writing output", "pattern", p.Name, "output", p.OutputPath)
		res.Written = append(res.Written, p.OutputPath)
		return p.OutputPath, true
	}

	if err := filler.Write(p.OutputPath, content); err != nil {
		e.Logger.Error("could not write pattern output", "pattern", p.Name, "output", p.OutputPath, "error", err)
		res.fail(p.Name, err)
		return "", false
	}
	res.Written = append(res.Written, p.OutputPath)
	return p.OutputPath, true
}

// applyWallpaper runs the wallpaper post-script with the theme's expanded
// wallpaper path. The wallpaper slot must be explicitly activated.
func (e *Engine) applyWallpaper(ctx context.Context, d *desktop.Desktop, th *theme.Theme, actived Switches, dryRun bool, res *Result) {
	if th.Wallpaper == "" || !actived.Get(postscript.Wallpaper) {
		return
	}
	s, ok := d.Scripts.PostScript(postscript.Wallpaper)
	if !ok {
		e.Logger.Debug("desktop has no wallpaper post-script", "desktop", d.Name)
		return
	}
	e.runScript(ctx, s, dryRun, res, paths.Expand(th.Wallpaper))
}

// startExtras launches every activated extra with the arguments the theme
// provides for it. Extras are not waited for.
func (e *Engine) startExtras(d *desktop.Desktop, th *theme.Theme, actived Switches, dryRun bool, res *Result) {
	for _, s := range d.Scripts.Extras() {
		if !actived.Get(s.Name) {
			continue
		}

		args := th.ExtraArgs(s.Name)
		expanded := make([]string, len(args))
		for i, a := range args {
			expanded[i] = paths.Expand(a)
		}

		res.Ran = append(res.Ran, s.Name)
		if dryRun {
			e.Logger.Info("dry-run: not executing extra", "extra", s.Name)
			continue
		}
		if err := e.Runner.Start(s, expanded...); err != nil {
			e.Logger.Error("could not start extra", "extra", s.Name, "error", err)
			res.fail(s.Name, err)
		}
	}
}

// installFiles removes the dotfiles of the outgoing and incoming desktops
// from the config home, then copies the incoming desktop's dotfiles and
// fonts into place. A dry run only reports what would be installed.
func (e *Engine) installFiles(previous, next *desktop.Desktop, dryRun bool, res *Result) {
	if dryRun {
		for _, entry := range next.Dotfiles() {
			res.Installed = append(res.Installed, filepath.Join(e.Layout.ConfigHome, entry.Name))
		}
		for _, entry := range next.Fonts() {
			res.Installed = append(res.Installed, filepath.Join(e.Layout.FontsHome, entry.Name))
		}
		e.Logger.Info("dry-run: not installing desktop files", "desktop", next.Name, "files", len(res.Installed))
		return
	}

	for _, d := range []*desktop.Desktop{previous, next} {
		if d == nil {
			continue
		}
		removed, err := d.CleanDotfiles(e.Layout.ConfigHome)
		if err != nil {
			e.Logger.Error("could not clean desktop files", "desktop", d.Name, "error", err)
			res.fail(d.Name, err)
		}
		for _, path := range removed {
			e.Logger.Debug("removed desktop file", "desktop", d.Name, "path", path)
		}
	}

	e.Logger.Info("copying config files", "desktop", next.Name, "to", e.Layout.ConfigHome)
	installed, err := next.InstallDotfiles(e.Layout.ConfigHome)
	res.Installed = append(res.Installed, installed...)
	if err != nil {
		e.Logger.Error("could not install config files", "desktop", next.Name, "error", err)
		res.fail(next.Name, err)
	}

	installed, err = next.InstallFonts(e.Layout.FontsHome)
	if len(installed) > 0 {
		e.Logger.Info("copied fonts", "desktop", next.Name, "to", e.Layout.FontsHome)
	}
	res.Installed = append(res.Installed, installed...)
	if err != nil {
		e.Logger.Error("could not install fonts", "desktop", next.Name, "error", err)
		res.fail(next.Name, err)
	}
}

func (e *Engine) runScript(ctx context.Context, s postscript.Script, dryRun bool, res *Result, args ...string) {
	res.Ran = append(res.Ran, s.Name)
	if dryRun {
		e.Logger.Info("dry-run: not executing post-script", "script", s.Name)
		return
	}
	if err := e.Runner.Run(ctx, s, args...); err != nil {
		e.Logger.Error("post-script failed", "script", s.Name, "error", err)
		res.fail(s.Name, err)
	}
}
