package stt

import (
	"strings"

	"dicton/encoder"
	"dicton/log"
	"dicton/metrics"
)

// noisePhrases are hallucinations batch models emit on silence or
// breath. Matched against the whole lowercased transcript.
var noisePhrases = map[string]bool{
	"thanks for watching":    true,
	"thank you for watching": true,
	"subscribe":              true,
	"you":                    true,
	"thank you":              true,
	"merci":                  true,
	"bye":                    true,
	"ok":                     true,
	"okay":                   true,
	"um":                     true,
	"uh":                     true,
	"hmm":                    true,
	"huh":                    true,
	"ah":                     true,
	"oh":                     true,
	"eh":                     true,
}

// FilterNoise drops transcripts that are almost certainly model
// hallucinations rather than speech. Returns "" for rejected text.
func FilterNoise(text string) string {
	if len(text) < 3 {
		return ""
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	if noisePhrases[lower] {
		return ""
	}
	if len(strings.Fields(text)) == 1 && len(text) < 10 {
		return ""
	}
	return text
}

// Engine turns raw PCM into filtered text. It picks a provider through
// the factory at call time and sweeps the remaining providers when the
// first one errors, so a single vendor outage costs one failed request,
// not the whole utterance.
type Engine struct {
	factory *Factory
	format  string // upload container, "wav" or "flac"
}

func NewEngine(factory *Factory, format string) *Engine {
	if format == "" {
		format = "wav"
	}
	return &Engine{factory: factory, format: format}
}

// Warm pre-opens connections for every available provider.
func (e *Engine) Warm() {
	for _, name := range e.factory.Available() {
		if w, ok := e.factory.Get(name).(interface{ Warm() }); ok {
			w.Warm()
		}
	}
}

// Transcribe encodes pcm into the configured upload format, sends it to
// the selected provider, and falls back across the others on error.
// An empty string with nil error means no usable speech.
func (e *Engine) Transcribe(pcm []byte) (string, error) {
	payload, err := encoder.Encode(e.format, pcm)
	if err != nil {
		return "", err
	}

	provider := e.factory.GetWithFallback()
	result, err := provider.Transcribe(payload, e.format)
	if err != nil {
		log.Warnf("provider %s transcription failed: %v", provider.Name(), err)
		return e.transcribeWithFallback(provider.Name(), payload)
	}
	return FilterNoise(result.Text), nil
}

// transcribeWithFallback sweeps the remaining providers after the
// selected one errored. All providers failing is an expected outcome
// and reported as empty text, not an error.
func (e *Engine) transcribeWithFallback(failed string, payload []byte) (string, error) {
	for _, name := range e.factory.Known() {
		if name == failed {
			continue
		}
		p := e.factory.Get(name)
		if !p.IsAvailable() {
			continue
		}
		result, err := p.Transcribe(payload, e.format)
		if err != nil {
			log.Warnf("fallback provider %s failed: %v", name, err)
			continue
		}
		if text := FilterNoise(result.Text); text != "" {
			log.ProviderFallback(failed, name)
			metrics.RecordFallback(failed, name)
			return text, nil
		}
	}
	return "", nil
}

// Translate transcribes pcm and translates it to targetLang in one
// provider call. ErrUnsupported when no available provider has the
// translation capability; callers then route through the LLM instead.
func (e *Engine) Translate(pcm []byte, targetLang string) (string, error) {
	payload, err := encoder.Encode(e.format, pcm)
	if err != nil {
		return "", err
	}

	for _, name := range e.factory.Known() {
		p := e.factory.Get(name)
		if !p.IsAvailable() || !p.Capabilities().Has(CapTranslation) {
			continue
		}
		result, err := p.Translate(payload, e.format, targetLang)
		if err != nil {
			log.Warnf("provider %s translation failed: %v", name, err)
			continue
		}
		if text := FilterNoise(result.Translation); text != "" {
			return text, nil
		}
	}
	return "", ErrUnsupported
}
