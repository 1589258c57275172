// Package output delivers final text into the focused application via
// clipboard and a synthesized paste keystroke.
package output

import (
	"fmt"
	"time"

	"dicton/clipboard"
	"dicton/core"
	"dicton/log"
	"dicton/paste"
)

// restoreDelay gives the target application time to read the clipboard
// before the previous contents come back.
const restoreDelay = 600 * time.Millisecond

// Writer implements the text output port. It saves the clipboard,
// copies the text, sends the platform paste chord, then restores the
// previous clipboard contents. Pasting over a selection replaces it,
// which is exactly what replaceSelection needs.
type Writer struct {
	// AutoPaste off means copy only; the user pastes manually.
	AutoPaste bool
	// RestoreClipboard puts the previous contents back after pasting.
	RestoreClipboard bool
}

func NewWriter() *Writer {
	return &Writer{AutoPaste: true, RestoreClipboard: true}
}

func (w *Writer) Output(text string, mode core.Mode, replaceSelection bool, app *core.AppContext) error {
	if text == "" {
		return nil
	}

	var prev string
	if w.RestoreClipboard {
		prev, _ = clipboard.Read()
	}

	if err := clipboard.Copy(text); err != nil {
		return fmt.Errorf("clipboard copy: %w", err)
	}
	log.TranscriptionText(text)

	if !w.AutoPaste {
		return nil
	}

	if err := paste.Send(); err != nil {
		return fmt.Errorf("paste keystroke: %w", err)
	}
	if target := appName(app); target != "" {
		log.Infof("pasted %d chars into %s (mode=%s, replace=%v)", len(text), target, mode, replaceSelection)
	}

	if w.RestoreClipboard && prev != "" && prev != text {
		go func() {
			time.Sleep(restoreDelay)
			clipboard.Copy(prev)
		}()
	}
	return nil
}

func appName(app *core.AppContext) string {
	if app == nil {
		return ""
	}
	return app.AppName
}
