package stt

// NullProvider is the terminal fallback. It never errors and never
// produces text, so a fully broken configuration degrades to "no
// speech detected" instead of a crash.
type NullProvider struct{}

func (NullProvider) Name() string { return "null" }

func (NullProvider) Capabilities() CapabilitySet { return Caps() }

func (NullProvider) IsAvailable() bool { return false }

func (NullProvider) Transcribe(audio []byte, format string) (*Result, error) {
	return &Result{IsFinal: true}, nil
}

func (n NullProvider) StreamTranscribe(chunks <-chan []byte, onPartial func(*Result)) (*Result, error) {
	for range chunks {
	}
	return &Result{IsFinal: true}, nil
}

func (NullProvider) Translate(audio []byte, format, targetLang string) (*Result, error) {
	return &Result{IsFinal: true}, nil
}
