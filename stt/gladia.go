package stt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const gladiaBaseURL = "https://api.gladia.io/v2"

// Gladia covers what ElevenLabs does not: translation, diarization,
// and a richer pre-recorded pipeline. Upload, enqueue, poll.
type Gladia struct {
	cfg    ProviderConfig
	client *TracedClient

	pollInterval time.Duration
}

func NewGladia(cfg ProviderConfig) *Gladia {
	return &Gladia{
		cfg:          cfg,
		client:       NewTracedClient(gladiaBaseURL+"/upload", cfg.Timeout),
		pollInterval: time.Second,
	}
}

func (g *Gladia) Name() string { return "gladia" }

func (g *Gladia) Capabilities() CapabilitySet {
	return Caps(CapBatch, CapTranslation, CapDiarization, CapWordTimestamps)
}

func (g *Gladia) IsAvailable() bool { return g.cfg.APIKey != "" }

func (g *Gladia) Warm() { go g.client.Warm() }

func (g *Gladia) Transcribe(audio []byte, format string) (*Result, error) {
	return g.run(audio, format, "")
}

func (g *Gladia) StreamTranscribe(chunks <-chan []byte, onPartial func(*Result)) (*Result, error) {
	return bufferStream(g, chunks)
}

func (g *Gladia) Translate(audio []byte, format, targetLang string) (*Result, error) {
	if targetLang == "" {
		return nil, fmt.Errorf("gladia translation requires a target language")
	}
	return g.run(audio, format, targetLang)
}

type gladiaUploadResponse struct {
	AudioURL string `json:"audio_url"`
}

type gladiaEnqueueResponse struct {
	ID        string `json:"id"`
	ResultURL string `json:"result_url"`
}

type gladiaResult struct {
	Status string `json:"status"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Result struct {
		Transcription struct {
			FullTranscript string   `json:"full_transcript"`
			Languages      []string `json:"languages"`
			Utterances     []struct {
				Text       string  `json:"text"`
				Speaker    int     `json:"speaker"`
				Confidence float64 `json:"confidence"`
				Words      []struct {
					Word       string  `json:"word"`
					Start      float64 `json:"start"`
					End        float64 `json:"end"`
					Confidence float64 `json:"confidence"`
				} `json:"words"`
			} `json:"utterances"`
		} `json:"transcription"`
		Translation struct {
			Results []struct {
				FullTranscript string `json:"full_transcript"`
			} `json:"results"`
		} `json:"translation"`
	} `json:"result"`
}

func (g *Gladia) run(audio []byte, format, targetLang string) (*Result, error) {
	audioURL, uploadMetrics, err := g.upload(audio, format)
	if err != nil {
		return nil, err
	}

	resultURL, err := g.enqueue(audioURL, targetLang)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(g.cfg.Timeout)
	for {
		res, done, err := g.poll(resultURL)
		if err != nil {
			return nil, err
		}
		if done {
			res.Raw["upload_network"] = uploadMetrics
			return res, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("gladia transcription timed out after %s", g.cfg.Timeout)
		}
		time.Sleep(g.pollInterval)
	}
}

func (g *Gladia) upload(audio []byte, format string) (string, *NetworkMetrics, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("audio", "audio."+format)
	if err != nil {
		return "", nil, err
	}
	if _, err := part.Write(audio); err != nil {
		return "", nil, err
	}
	writer.Close()

	req, err := http.NewRequest("POST", gladiaBaseURL+"/upload", &body)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("x-gladia-key", g.cfg.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := g.client.Do(req)
	if err != nil {
		return "", nil, err
	}
	if resp.StatusCode != 200 && resp.StatusCode != 201 {
		return "", nil, fmt.Errorf("gladia upload error %d: %s", resp.StatusCode, string(resp.Body))
	}

	var uResp gladiaUploadResponse
	if err := json.Unmarshal(resp.Body, &uResp); err != nil {
		return "", nil, fmt.Errorf("gladia upload parse error: %w", err)
	}
	return uResp.AudioURL, resp.Metrics, nil
}

func (g *Gladia) enqueue(audioURL, targetLang string) (string, error) {
	payload := map[string]any{
		"audio_url":   audioURL,
		"diarization": true,
	}
	if g.cfg.Language != "" {
		payload["language"] = g.cfg.Language
	}
	if targetLang != "" {
		payload["translation"] = true
		payload["translation_config"] = map[string]any{
			"target_languages": []string{targetLang},
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", gladiaBaseURL+"/pre-recorded", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-gladia-key", g.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != 200 && resp.StatusCode != 201 {
		return "", fmt.Errorf("gladia enqueue error %d: %s", resp.StatusCode, string(resp.Body))
	}

	var eResp gladiaEnqueueResponse
	if err := json.Unmarshal(resp.Body, &eResp); err != nil {
		return "", fmt.Errorf("gladia enqueue parse error: %w", err)
	}
	if eResp.ResultURL != "" {
		return eResp.ResultURL, nil
	}
	return gladiaBaseURL + "/pre-recorded/" + eResp.ID, nil
}

func (g *Gladia) poll(resultURL string) (*Result, bool, error) {
	req, err := http.NewRequest("GET", resultURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("x-gladia-key", g.cfg.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, false, err
	}
	if resp.StatusCode != 200 {
		return nil, false, fmt.Errorf("gladia poll error %d: %s", resp.StatusCode, string(resp.Body))
	}

	var gResp gladiaResult
	if err := json.Unmarshal(resp.Body, &gResp); err != nil {
		return nil, false, fmt.Errorf("gladia result parse error: %w", err)
	}

	switch gResp.Status {
	case "done":
	case "error":
		return nil, false, fmt.Errorf("gladia transcription failed: %s", gResp.Error.Message)
	default:
		return nil, false, nil
	}

	tr := gResp.Result.Transcription
	var words []WordInfo
	var confSum float64
	var confN int
	for _, u := range tr.Utterances {
		confSum += u.Confidence
		confN++
		for _, w := range u.Words {
			words = append(words, WordInfo{
				Word:       strings.TrimSpace(w.Word),
				Start:      w.Start,
				End:        w.End,
				Confidence: w.Confidence,
			})
		}
	}
	var confidence float64
	if confN > 0 {
		confidence = confSum / float64(confN)
	}

	var language string
	if len(tr.Languages) > 0 {
		language = tr.Languages[0]
	}

	var translation string
	if rs := gResp.Result.Translation.Results; len(rs) > 0 {
		translation = rs[0].FullTranscript
	}

	return &Result{
		Text:        tr.FullTranscript,
		Language:    language,
		Confidence:  confidence,
		IsFinal:     true,
		Words:       words,
		Translation: translation,
		Raw: map[string]any{
			"provider": "gladia",
			"network":  resp.Metrics,
		},
	}, true, nil
}
