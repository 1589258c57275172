package hotkey

import "testing"

func TestParseCombo(t *testing.T) {
	cases := []struct {
		in   string
		want Combo
	}{
		{"ctrl+shift+space", Combo{Ctrl: true, Shift: true, Key: "space"}},
		{"ctrl+alt+d", Combo{Ctrl: true, Alt: true, Key: "d"}},
		{"Ctrl+Shift+Space", Combo{Ctrl: true, Shift: true, Key: "space"}},
		{"shift+9", Combo{Shift: true, Key: "9"}},
	}
	for _, c := range cases {
		got, err := ParseCombo(c.in)
		if err != nil {
			t.Errorf("ParseCombo(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseCombo(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParseComboRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"space",         // no modifier
		"ctrl+enter",    // unsupported key
		"hyper+space",   // unknown modifier
		"ctrl+shift+fn", // unsupported key
	} {
		if _, err := ParseCombo(in); err == nil {
			t.Errorf("ParseCombo(%q) should fail", in)
		}
	}
}

func TestComboString(t *testing.T) {
	c := Combo{Ctrl: true, Shift: true, Key: "space"}
	if got := c.String(); got != "ctrl+shift+space" {
		t.Errorf("got %q", got)
	}
}

func TestFakeDrivesPushToTalkLoop(t *testing.T) {
	var hk Hotkey = NewFake()
	if err := hk.Register(); err != nil {
		t.Fatalf("Register: %v", err)
	}
	defer hk.Unregister()

	fake := hk.(*FakeHotkey)

	// Two press/release cycles through the interface channels, the way
	// main's session loop consumes them.
	var downs, ups int
	for i := 0; i < 2; i++ {
		fake.SimKeydown()
		select {
		case <-hk.Keydown():
			downs++
		default:
			t.Fatal("keydown not delivered")
		}
		fake.SimKeyup()
		select {
		case <-hk.Keyup():
			ups++
		default:
			t.Fatal("keyup not delivered")
		}
	}
	if downs != 2 || ups != 2 {
		t.Errorf("got %d downs and %d ups, want 2 and 2", downs, ups)
	}
}
