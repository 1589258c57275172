package stt

import (
	"errors"
	"testing"
)

func testPCM() []byte {
	// 100ms of silence at 16kHz mono 16-bit.
	return make([]byte, 3200)
}

func engineWith(defaultName string, providers ...*FakeProvider) *Engine {
	f := newTestFactory(defaultName)
	for _, p := range providers {
		p := p
		f.Register(p.ProviderName, func(FactoryConfig) (Provider, error) { return p, nil })
	}
	return NewEngine(f, "wav")
}

func TestFilterNoise(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"this is a real sentence", "this is a real sentence"},
		{"Thank you for watching", ""},
		{"thanks for watching", ""},
		{"ok", ""},
		{"Okay", ""},
		{"um", ""},
		{"", ""},
		{"hi", ""},
		{"word", ""}, // single short word
		{"antidisestablishmentarianism", "antidisestablishmentarianism"},
		{"two words", "two words"},
	}
	for _, c := range cases {
		if got := FilterNoise(c.in); got != c.want {
			t.Errorf("FilterNoise(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEngineTranscribe(t *testing.T) {
	fake := NewFakeProvider("fake", "hello from the engine")
	e := engineWith("fake", fake)

	text, err := e.Transcribe(testPCM())
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hello from the engine" {
		t.Errorf("got %q", text)
	}
}

func TestEngineFiltersHallucinations(t *testing.T) {
	fake := NewFakeProvider("fake", "thank you")
	e := engineWith("fake", fake)

	text, err := e.Transcribe(testPCM())
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "" {
		t.Errorf("expected filtered hallucination, got %q", text)
	}
}

func TestEngineFallsBackOnProviderError(t *testing.T) {
	primary := NewFakeProvider("primary", "")
	primary.Err = errors.New("503 service unavailable")
	backup := NewFakeProvider("backup", "rescued transcript")
	e := engineWith("primary", primary, backup)

	text, err := e.Transcribe(testPCM())
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "rescued transcript" {
		t.Errorf("got %q, want fallback transcript", text)
	}
	if primary.TranscribeCalls != 1 {
		t.Errorf("primary called %d times, want 1", primary.TranscribeCalls)
	}
	if backup.TranscribeCalls != 1 {
		t.Errorf("backup called %d times, want 1", backup.TranscribeCalls)
	}
}

func TestEngineFallbackSkipsUnavailable(t *testing.T) {
	primary := NewFakeProvider("primary", "")
	primary.Err = errors.New("boom")
	down := NewFakeProvider("down", "never used")
	down.Available = false
	backup := NewFakeProvider("backup", "still works")
	e := engineWith("primary", primary, down, backup)

	text, err := e.Transcribe(testPCM())
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "still works" {
		t.Errorf("got %q", text)
	}
	if down.TranscribeCalls != 0 {
		t.Error("unavailable provider must not be called")
	}
}

func TestEngineAllProvidersFailIsNotAnError(t *testing.T) {
	primary := NewFakeProvider("primary", "")
	primary.Err = errors.New("down")
	backup := NewFakeProvider("backup", "")
	backup.Err = errors.New("also down")
	e := engineWith("primary", primary, backup)

	text, err := e.Transcribe(testPCM())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if text != "" {
		t.Errorf("got %q, want empty", text)
	}
}

func TestEngineTranslate(t *testing.T) {
	batch := NewFakeProvider("batch", "ignored")
	capable := NewFakeProvider("capable", "bonjour")
	capable.Caps = Caps(CapBatch, CapTranslation)
	capable.Translated = "hello there friend"
	e := engineWith("batch", batch, capable)

	text, err := e.Translate(testPCM(), "en")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if text != "hello there friend" {
		t.Errorf("got %q", text)
	}
	if batch.TranslateCalls != 0 {
		t.Error("provider without translation capability must not be asked")
	}
}

func TestEngineTranslateUnsupported(t *testing.T) {
	batch := NewFakeProvider("batch", "text")
	e := engineWith("batch", batch)

	_, err := e.Translate(testPCM(), "en")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}
