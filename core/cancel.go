package core

import "sync/atomic"

// CancelToken is a single-flag cooperative cancellation signal. The
// controller owns it and resets it at the start of every session; the
// hotkey thread sets it through Controller.Cancel while Record blocks on
// another goroutine, so the flag is atomic rather than lock-guarded.
type CancelToken struct {
	cancelled atomic.Bool
}

func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel sets the flag. It stays set until Reset.
func (t *CancelToken) Cancel() {
	t.cancelled.Store(true)
}

// Reset clears the flag before a new session starts.
func (t *CancelToken) Reset() {
	t.cancelled.Store(false)
}

func (t *CancelToken) Cancelled() bool {
	return t.cancelled.Load()
}
