// Package notify shows desktop notifications for session feedback.
package notify

import (
	"os/exec"
	"runtime"

	"dicton/log"
)

// Notifier implements the UI feedback port with the platform's native
// notification command. Disabled or failing notifications degrade to
// the diagnostics log so sessions never stall on a missing notifier.
type Notifier struct {
	Enabled bool
	AppName string

	// run is swapped in tests.
	run func(name string, args ...string) error
}

func New(enabled bool) *Notifier {
	return &Notifier{
		Enabled: enabled,
		AppName: "dicton",
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

func (n *Notifier) Notify(title, message string) {
	log.Infof("notify: %s: %s", title, message)
	if !n.Enabled {
		return
	}

	var err error
	switch runtime.GOOS {
	case "linux":
		err = n.run("notify-send", "--app-name="+n.AppName, "--expire-time=3000", title, message)
	case "darwin":
		script := `display notification "` + escape(message) + `" with title "` + escape(title) + `"`
		err = n.run("osascript", "-e", script)
	default:
		return
	}
	if err != nil {
		log.Warnf("notification failed: %v", err)
	}
}

func escape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
