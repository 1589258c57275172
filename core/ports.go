package core

import "dicton/metrics"

// AppContext is an opaque snapshot of the currently focused application,
// captured by the host before a session starts. The core passes it through
// to the processing and output ports untouched.
type AppContext struct {
	AppName     string
	WindowTitle string
}

// SessionContext carries optional per-session details into the controller.
// It is immutable for the duration of the session.
type SessionContext struct {
	SelectedText string
	App          *AppContext
}

// HasSelection reports whether the session acts on selected text, which
// also decides the replace-selection behavior of the output port.
func (s SessionContext) HasSelection() bool {
	return s.SelectedText != ""
}

// AudioCapture records microphone audio for one session. Record blocks
// until Stop or Cancel is signaled from another goroutine; both signals
// must return promptly without waiting for the capture loop themselves.
// Record returns raw PCM (s16le mono) or nil when nothing usable was
// captured. Errors are reserved for unexpected device failures.
type AudioCapture interface {
	Record() ([]byte, error)
	Stop()
	Cancel()
}

// STTService turns captured audio into text. An empty string means "no
// speech" or "no provider could serve the request"; both are expected
// failure modes, not errors.
type STTService interface {
	Transcribe(audio []byte) (string, error)
}

// TextProcessor post-processes transcribed text according to the session
// mode. An empty result means processing declined to produce output.
type TextProcessor interface {
	Process(text string, mode Mode, selectedText string, app *AppContext) (string, error)
}

// TextOutput delivers the final text into the focused application.
type TextOutput interface {
	Output(text string, mode Mode, replaceSelection bool, app *AppContext) error
}

// UIFeedback shows user-visible notifications.
type UIFeedback interface {
	Notify(title, message string)
}

// MetricsSink tracks per-session stage timings. StartSession and
// EndSession bracket exactly one controller invocation; Measure returns a
// func that closes the named timing scope.
type MetricsSink interface {
	StartSession()
	Measure(name string, tags ...string) func()
	EndSession() *metrics.Summary
}
