// Package shutdown routes OS termination signals to a channel so the
// main loop can tear down logging and the TUI before exiting.
package shutdown

import (
	"os"
	"os/signal"
)

func Notify(ch chan os.Signal) {
	signal.Notify(ch, signals()...)
}
