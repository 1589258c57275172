//go:build darwin

package hotkey

import xhk "golang.design/x/hotkey"

const altModifier = xhk.ModOption
