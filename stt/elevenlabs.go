package stt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
)

const elevenLabsURL = "https://api.elevenlabs.io/v1/speech-to-text"

// ElevenLabs is a batch-only provider backed by the Scribe models.
// No streaming and no translation; the engine routes those elsewhere.
type ElevenLabs struct {
	cfg    ProviderConfig
	client *TracedClient
}

func NewElevenLabs(cfg ProviderConfig) *ElevenLabs {
	if cfg.Model == "" {
		cfg.Model = "scribe_v1"
	}
	return &ElevenLabs{
		cfg:    cfg,
		client: NewTracedClient(elevenLabsURL, cfg.Timeout),
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

func (e *ElevenLabs) Capabilities() CapabilitySet {
	return Caps(CapBatch, CapWordTimestamps)
}

func (e *ElevenLabs) IsAvailable() bool { return e.cfg.APIKey != "" }

// Warm opens the TLS connection before the first utterance.
func (e *ElevenLabs) Warm() { go e.client.Warm() }

type elevenLabsResponse struct {
	Text         string `json:"text"`
	LanguageCode string `json:"language_code"`
	LanguageProb float64 `json:"language_probability"`
	Words        []struct {
		Text  string  `json:"text"`
		Type  string  `json:"type"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"words"`
}

func (e *ElevenLabs) Transcribe(audio []byte, format string) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio."+format)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, err
	}

	writer.WriteField("model_id", e.cfg.Model)
	if e.cfg.Language != "" {
		writer.WriteField("language_code", e.cfg.Language)
	}
	writer.Close()

	req, err := http.NewRequest("POST", elevenLabsURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", e.cfg.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("elevenlabs API error %d: %s", resp.StatusCode, string(resp.Body))
	}

	var eResp elevenLabsResponse
	if err := json.Unmarshal(resp.Body, &eResp); err != nil {
		return nil, fmt.Errorf("elevenlabs response parse error: %w", err)
	}

	var words []WordInfo
	for _, w := range eResp.Words {
		if w.Type != "word" {
			continue
		}
		words = append(words, WordInfo{Word: w.Text, Start: w.Start, End: w.End})
	}

	return &Result{
		Text:       eResp.Text,
		Language:   eResp.LanguageCode,
		Confidence: eResp.LanguageProb,
		IsFinal:    true,
		Words:      words,
		Raw: map[string]any{
			"provider": "elevenlabs",
			"model":    e.cfg.Model,
			"network":  resp.Metrics,
		},
	}, nil
}

func (e *ElevenLabs) StreamTranscribe(chunks <-chan []byte, onPartial func(*Result)) (*Result, error) {
	return bufferStream(e, chunks)
}

func (e *ElevenLabs) Translate(audio []byte, format, targetLang string) (*Result, error) {
	return nil, ErrUnsupported
}
