//go:build !linux

package hotkey

import (
	"fmt"

	xhk "golang.design/x/hotkey"
)

// xKeys covers the keys ParseCombo accepts.
var xKeys = map[string]xhk.Key{
	"space": xhk.KeySpace,
	"a":     xhk.KeyA, "b": xhk.KeyB, "c": xhk.KeyC, "d": xhk.KeyD,
	"e": xhk.KeyE, "f": xhk.KeyF, "g": xhk.KeyG, "h": xhk.KeyH,
	"i": xhk.KeyI, "j": xhk.KeyJ, "k": xhk.KeyK, "l": xhk.KeyL,
	"m": xhk.KeyM, "n": xhk.KeyN, "o": xhk.KeyO, "p": xhk.KeyP,
	"q": xhk.KeyQ, "r": xhk.KeyR, "s": xhk.KeyS, "t": xhk.KeyT,
	"u": xhk.KeyU, "v": xhk.KeyV, "w": xhk.KeyW, "x": xhk.KeyX,
	"y": xhk.KeyY, "z": xhk.KeyZ,
	"0": xhk.Key0, "1": xhk.Key1, "2": xhk.Key2, "3": xhk.Key3,
	"4": xhk.Key4, "5": xhk.Key5, "6": xhk.Key6, "7": xhk.Key7,
	"8": xhk.Key8, "9": xhk.Key9,
}

type xHotkey struct {
	hk      *xhk.Hotkey
	keydown chan struct{}
	keyup   chan struct{}
}

func New(combo Combo) (Hotkey, error) {
	key, ok := xKeys[combo.Key]
	if !ok {
		return nil, fmt.Errorf("unsupported hotkey %q", combo.Key)
	}
	var mods []xhk.Modifier
	if combo.Ctrl {
		mods = append(mods, xhk.ModCtrl)
	}
	if combo.Shift {
		mods = append(mods, xhk.ModShift)
	}
	if combo.Alt {
		mods = append(mods, altModifier)
	}
	return &xHotkey{
		hk:      xhk.New(mods, key),
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}, nil
}

func (h *xHotkey) Register() error {
	if err := h.hk.Register(); err != nil {
		return err
	}
	go func() {
		for {
			<-h.hk.Keydown()
			h.keydown <- struct{}{}
		}
	}()
	go func() {
		for {
			<-h.hk.Keyup()
			h.keyup <- struct{}{}
		}
	}()
	return nil
}

func (h *xHotkey) Unregister() {
	h.hk.Unregister()
}

func (h *xHotkey) Keydown() <-chan struct{} {
	return h.keydown
}

func (h *xHotkey) Keyup() <-chan struct{} {
	return h.keyup
}

func Diagnose() (string, error) {
	return "global hotkey support available", nil
}
