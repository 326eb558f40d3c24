package engine

import (
	"strings"

	"github.com/gtheme/gtheme/internal/desktop"
)

// Switches maps pattern, module and extra names to a boolean. Lookups are
// case-insensitive and absent names read as false.
type Switches map[string]bool

// Get returns the value stored for name.
func (s Switches) Get(name string) bool {
	if v, ok := s[name]; ok {
		return v
	}
	for k, v := range s {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return false
}

// Toggle flips the value stored for name, inserting true when absent.
func (s Switches) Toggle(name string) {
	for k, v := range s {
		if strings.EqualFold(k, name) {
			s[k] = !v
			return
		}
	}
	s[name] = true
}

// Effective computes the activation and inversion maps used for one
// application. A non-nil patterns list replaces the stored activation
// entirely; a non-nil invert list flips the stored inversion of each name.
func Effective(cfg *desktop.Config, patterns, invert []string) (actived, inverted Switches) {
	if patterns != nil {
		actived = make(Switches, len(patterns))
		for _, p := range patterns {
			actived[p] = true
		}
	} else {
		actived = Switches(cfg.Actived())
	}

	inverted = Switches(cfg.Inverted())
	for _, p := range invert {
		inverted.Toggle(p)
	}
	return actived, inverted
}
