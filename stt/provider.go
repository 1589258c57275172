// Package stt abstracts speech-to-text vendors behind a capability-based
// provider interface with selection-time and call-time fallback.
package stt

import (
	"errors"
	"time"

	"dicton/encoder"
)

// Capability is an optional feature a provider may support. Callers
// branch on capabilities, never on provider identity.
type Capability int

const (
	CapBatch Capability = iota
	CapStreaming
	CapTranslation
	CapDiarization
	CapWordTimestamps
)

func (c Capability) String() string {
	switch c {
	case CapBatch:
		return "batch"
	case CapStreaming:
		return "streaming"
	case CapTranslation:
		return "translation"
	case CapDiarization:
		return "diarization"
	case CapWordTimestamps:
		return "word_timestamps"
	default:
		return "unknown"
	}
}

type CapabilitySet map[Capability]bool

func Caps(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = true
	}
	return set
}

func (s CapabilitySet) Has(c Capability) bool {
	return s[c]
}

// WordInfo is per-word timing for providers with the word_timestamps
// capability. Words are chronological within one completed utterance.
type WordInfo struct {
	Word       string
	Start      float64 // seconds
	End        float64
	Confidence float64 // 0 when the provider gives none
}

// Result is the outcome of one transcription (or of a whole streaming
// session). Immutable after construction.
type Result struct {
	Text        string
	Language    string
	Confidence  float64
	IsFinal     bool
	Words       []WordInfo
	Translation string
	Raw         map[string]any // provider diagnostics, opaque to callers
}

// ErrUnsupported signals a capability a provider does not have, as
// opposed to an attempt that failed. Callers check with errors.Is.
var ErrUnsupported = errors.New("capability not supported")

// ProviderConfig carries per-provider construction settings.
type ProviderConfig struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	Language   string // empty = auto-detect
	SampleRate int
}

// Provider is a pluggable STT backend. Batch transcription is mandatory;
// streaming and translation are optional and declared via capabilities.
// Expected failures (no speech, provider down) surface as errors at this
// layer and are absorbed by the engine's fallback sweep.
type Provider interface {
	Name() string
	Capabilities() CapabilitySet
	IsAvailable() bool
	Transcribe(audio []byte, format string) (*Result, error)
	StreamTranscribe(chunks <-chan []byte, onPartial func(*Result)) (*Result, error)
	Translate(audio []byte, format, targetLang string) (*Result, error)
}

// bufferStream is the default streaming behavior for providers without
// the streaming capability: drain every chunk, wrap the PCM in a WAV
// container, and run one batch transcription.
func bufferStream(p Provider, chunks <-chan []byte) (*Result, error) {
	var pcm []byte
	for chunk := range chunks {
		pcm = append(pcm, chunk...)
	}
	return p.Transcribe(encoder.WAV(pcm), "wav")
}
