package stt

// FakeProvider is a configurable in-memory provider for tests.
type FakeProvider struct {
	ProviderName string
	Caps         CapabilitySet
	Available    bool
	Text         string
	Translated   string
	Partials     []string
	Err          error

	TranscribeCalls int
	TranslateCalls  int
	StreamCalls     int
}

func NewFakeProvider(name, text string) *FakeProvider {
	return &FakeProvider{
		ProviderName: name,
		Caps:         Caps(CapBatch),
		Available:    true,
		Text:         text,
	}
}

func (f *FakeProvider) Name() string { return f.ProviderName }

func (f *FakeProvider) Capabilities() CapabilitySet { return f.Caps }

func (f *FakeProvider) IsAvailable() bool { return f.Available }

func (f *FakeProvider) Transcribe(audio []byte, format string) (*Result, error) {
	f.TranscribeCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	return &Result{Text: f.Text, IsFinal: true}, nil
}

func (f *FakeProvider) StreamTranscribe(chunks <-chan []byte, onPartial func(*Result)) (*Result, error) {
	f.StreamCalls++
	if !f.Caps.Has(CapStreaming) {
		return bufferStream(f, chunks)
	}
	for range chunks {
	}
	if f.Err != nil {
		return nil, f.Err
	}
	if onPartial != nil {
		for _, p := range f.Partials {
			onPartial(&Result{Text: p})
		}
	}
	return &Result{Text: f.Text, IsFinal: true}, nil
}

func (f *FakeProvider) Translate(audio []byte, format, targetLang string) (*Result, error) {
	f.TranslateCalls++
	if !f.Caps.Has(CapTranslation) {
		return nil, ErrUnsupported
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return &Result{Text: f.Text, Translation: f.Translated, Language: targetLang, IsFinal: true}, nil
}
