// Package hotkey delivers global push-to-talk key events.
package hotkey

import (
	"fmt"
	"strings"
)

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}

// Combo is a parsed global key combination, e.g. "ctrl+shift+space".
type Combo struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Key   string // single letter, digit, or "space"
}

// DefaultCombo is used when no hotkey is configured.
const DefaultCombo = "ctrl+shift+space"

// ParseCombo splits a "+"-separated combination into modifiers and a
// final key. At least one modifier is required so plain typing cannot
// trigger a session.
func ParseCombo(s string) (Combo, error) {
	var c Combo
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		last := i == len(parts)-1
		switch {
		case !last && part == "ctrl":
			c.Ctrl = true
		case !last && part == "shift":
			c.Shift = true
		case !last && part == "alt":
			c.Alt = true
		case last:
			if !validKey(part) {
				return Combo{}, fmt.Errorf("unsupported hotkey %q", part)
			}
			c.Key = part
		default:
			return Combo{}, fmt.Errorf("unsupported modifier %q", part)
		}
	}
	if !c.Ctrl && !c.Shift && !c.Alt {
		return Combo{}, fmt.Errorf("hotkey %q needs at least one modifier", s)
	}
	return c, nil
}

func validKey(k string) bool {
	if k == "space" {
		return true
	}
	if len(k) != 1 {
		return false
	}
	return (k[0] >= 'a' && k[0] <= 'z') || (k[0] >= '0' && k[0] <= '9')
}

func (c Combo) String() string {
	var parts []string
	if c.Ctrl {
		parts = append(parts, "ctrl")
	}
	if c.Shift {
		parts = append(parts, "shift")
	}
	if c.Alt {
		parts = append(parts, "alt")
	}
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}
