package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/gtheme/gtheme/internal/desktop"
	"github.com/gtheme/gtheme/internal/pattern"
	"github.com/gtheme/gtheme/internal/postscript"
	"github.com/gtheme/gtheme/internal/theme"
)

// Kind tags the variant held by an Item.
type Kind int

const (
	KindDesktop Kind = iota
	KindTheme
	KindPattern
	KindExtra
	KindHelp
	KindInfo
)

func (k Kind) String() string {
	switch k {
	case KindDesktop:
		return "desktop"
	case KindTheme:
		return "theme"
	case KindPattern:
		return "pattern"
	case KindExtra:
		return "extra"
	case KindHelp:
		return "help"
	case KindInfo:
		return "info"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Item is one selectable row of a listing. Only the field matching Kind is
// set.
type Item struct {
	Kind    Kind
	Desktop desktop.Ref
	Theme   theme.Ref
	Pattern pattern.Ref
	Extra   postscript.Script
	Text    string
}

// DesktopItem wraps a desktop reference.
func DesktopItem(ref desktop.Ref) Item { return Item{Kind: KindDesktop, Desktop: ref} }

// ThemeItem wraps a theme reference.
func ThemeItem(ref theme.Ref) Item { return Item{Kind: KindTheme, Theme: ref} }

// PatternItem wraps a pattern or module reference.
func PatternItem(ref pattern.Ref) Item { return Item{Kind: KindPattern, Pattern: ref} }

// ExtraItem wraps an extra.
func ExtraItem(s postscript.Script) Item { return Item{Kind: KindExtra, Extra: s} }

// HelpItem wraps a line of help text.
func HelpItem(text string) Item { return Item{Kind: KindHelp, Text: text} }

// InfoItem wraps a line of informational text.
func InfoItem(text string) Item { return Item{Kind: KindInfo, Text: text} }

// Name returns the display name of the item.
func (i Item) Name() string {
	switch i.Kind {
	case KindDesktop:
		return i.Desktop.Name
	case KindTheme:
		return i.Theme.Name
	case KindPattern:
		return i.Pattern.Name
	case KindExtra:
		return i.Extra.Name
	default:
		return i.Text
	}
}

// Path returns the file or directory backing the item, if any.
func (i Item) Path() string {
	switch i.Kind {
	case KindDesktop:
		return i.Desktop.Path
	case KindTheme:
		return i.Theme.Path
	case KindPattern:
		return i.Pattern.Path
	case KindExtra:
		return i.Extra.Path
	default:
		return ""
	}
}

// IsActive reports whether the item is the current desktop or theme, or an
// activated pattern or extra of the current desktop. cfg may be nil when no
// desktop is current.
func (e *Engine) IsActive(i Item, cfg *desktop.Config) bool {
	switch i.Kind {
	case KindDesktop:
		current, ok := e.Global.CurrentDesktop()
		return ok && strings.EqualFold(current, i.Desktop.Name)
	case KindTheme:
		current, ok := e.Global.CurrentTheme()
		return ok && strings.EqualFold(current, i.Theme.Name)
	case KindPattern:
		return cfg != nil && cfg.IsActive(i.Pattern.Group)
	case KindExtra:
		return cfg != nil && cfg.IsActive(i.Extra.Name)
	default:
		return false
	}
}

// ApplyItem performs the item's primary action: installing a desktop,
// applying a theme, or toggling a pattern or extra on the current desktop.
// Help and info rows have no action and yield a nil result.
func (e *Engine) ApplyItem(ctx context.Context, i Item, dryRun bool) (*Result, error) {
	switch i.Kind {
	case KindDesktop:
		return e.ApplyDesktop(ctx, DesktopRequest{Desktop: i.Desktop.Name, DryRun: dryRun})
	case KindTheme:
		return e.ApplyTheme(ctx, ThemeRequest{Theme: i.Theme.Name, DryRun: dryRun})
	case KindPattern, KindExtra:
		d, err := e.CurrentDesktop()
		if err != nil {
			return nil, err
		}
		cfg := e.configFor(d, dryRun)
		if i.Kind == KindPattern {
			cfg.TogglePattern(i.Pattern.Group)
		} else {
			cfg.ToggleExtra(i.Extra.Name)
		}
		if dryRun {
			return nil, nil
		}
		return nil, cfg.Save()
	default:
		return nil, nil
	}
}
