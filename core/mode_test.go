package core

import "testing"

func TestParseMode(t *testing.T) {
	for _, tt := range []struct {
		name string
		want Mode
		ok   bool
	}{
		{"basic", ModeBasic, true},
		{"translation", ModeTranslation, true},
		{"act_on_text", ModeActOnText, true},
		{"bogus", ModeBasic, false},
	} {
		got, ok := ParseMode(tt.name)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseMode(%q) = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestConfigFor(t *testing.T) {
	if cfg := ConfigFor(ModeActOnText); !cfg.RequiresSelection || !cfg.RequiresLLM {
		t.Error("act_on_text requires both a selection and the LLM")
	}
	if cfg := ConfigFor(ModeRaw); cfg.RequiresLLM {
		t.Error("raw mode must not require the LLM")
	}
	if cfg := ConfigFor(Mode(99)); cfg.Mode != ModeBasic {
		t.Error("unknown modes fall back to basic")
	}
}
