//go:build windows

package hotkey

import xhk "golang.design/x/hotkey"

const altModifier = xhk.ModAlt
