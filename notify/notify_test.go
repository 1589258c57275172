package notify

import (
	"runtime"
	"testing"
)

func TestNotifyDisabledRunsNothing(t *testing.T) {
	n := New(false)
	called := false
	n.run = func(string, ...string) error {
		called = true
		return nil
	}

	n.Notify("Title", "message")
	if called {
		t.Error("disabled notifier must not spawn commands")
	}
}

func TestNotifyUsesPlatformCommand(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("no notification command on this platform")
	}

	n := New(true)
	var gotName string
	var gotArgs []string
	n.run = func(name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}

	n.Notify("Recording", "Listening...")

	switch runtime.GOOS {
	case "linux":
		if gotName != "notify-send" {
			t.Errorf("got command %q, want notify-send", gotName)
		}
		if len(gotArgs) == 0 || gotArgs[len(gotArgs)-1] != "Listening..." {
			t.Errorf("message not passed: %v", gotArgs)
		}
	case "darwin":
		if gotName != "osascript" {
			t.Errorf("got command %q, want osascript", gotName)
		}
	}
}

func TestEscape(t *testing.T) {
	if got := escape(`say "hi" \ bye`); got != `say \"hi\" \\ bye` {
		t.Errorf("got %q", got)
	}
}
