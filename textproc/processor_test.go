package textproc

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"dicton/core"
)

type stubChat struct {
	reply    string
	err      error
	requests []openai.ChatCompletionRequest
}

func (s *stubChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.reply}},
		},
	}, nil
}

func emptyDict(t *testing.T) *Dictionary {
	t.Helper()
	return LoadDictionary(filepath.Join(t.TempDir(), "dictionary.json"))
}

func dictWith(t *testing.T, from, to string) *Dictionary {
	t.Helper()
	d := emptyDict(t)
	if err := d.Add(from, to, false); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestProcessorRawBypassesDictionary(t *testing.T) {
	p := NewProcessor(dictWith(t, "foo", "bar"), nil, "")

	got, err := p.Process("some foo text", core.ModeRaw, "", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got != "some foo text" {
		t.Errorf("raw mode altered text: %q", got)
	}
}

func TestProcessorBasicAppliesDictionary(t *testing.T) {
	p := NewProcessor(dictWith(t, "foo", "bar"), nil, "")

	got, err := p.Process("some foo text", core.ModeBasic, "", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got != "some bar text" {
		t.Errorf("got %q", got)
	}
}

func TestProcessorLLMModeWithoutLLMDegrades(t *testing.T) {
	p := NewProcessor(dictWith(t, "foo", "bar"), nil, "")

	got, err := p.Process("some foo text", core.ModeReformulation, "", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got != "some bar text" {
		t.Errorf("expected dictionary result, got %q", got)
	}
}

func TestProcessorTranslation(t *testing.T) {
	stub := &stubChat{reply: "hello world"}
	llm := &LLM{client: stub, model: openai.GPT4oMini}
	p := NewProcessor(emptyDict(t), llm, "English")

	got, err := p.Process("bonjour le monde", core.ModeTranslation, "", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got != "hello world" {
		t.Errorf("got %q", got)
	}
	if len(stub.requests) != 1 {
		t.Fatalf("expected one completion, got %d", len(stub.requests))
	}
	system := stub.requests[0].Messages[0].Content
	if !strings.Contains(system, "English") {
		t.Errorf("system prompt missing target language: %q", system)
	}
}

func TestProcessorLLMErrorYieldsEmptyResult(t *testing.T) {
	stub := &stubChat{err: errors.New("network down")}
	llm := &LLM{client: stub, model: openai.GPT4oMini}
	p := NewProcessor(emptyDict(t), llm, "English")

	// A failed completion is an expected port outcome: empty result, no
	// error, so the controller notifies instead of propagating.
	got, err := p.Process("bonjour le monde", core.ModeTranslation, "", nil)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty result on LLM failure", got)
	}
}

func TestProcessorActOnText(t *testing.T) {
	stub := &stubChat{reply: "SHOUTED TEXT"}
	llm := &LLM{client: stub, model: openai.GPT4oMini}
	p := NewProcessor(emptyDict(t), llm, "")

	got, err := p.Process("make it uppercase", core.ModeActOnText, "shouted text", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got != "SHOUTED TEXT" {
		t.Errorf("got %q", got)
	}
	user := stub.requests[0].Messages[1].Content
	if !strings.Contains(user, "make it uppercase") || !strings.Contains(user, "shouted text") {
		t.Errorf("user prompt missing instruction or selection: %q", user)
	}
}

func TestProcessorActOnTextWithoutSelection(t *testing.T) {
	stub := &stubChat{reply: "never used"}
	llm := &LLM{client: stub, model: openai.GPT4oMini}
	p := NewProcessor(emptyDict(t), llm, "")

	got, err := p.Process("make it uppercase", core.ModeActOnText, "", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got != "make it uppercase" {
		t.Errorf("got %q", got)
	}
	if len(stub.requests) != 0 {
		t.Error("LLM must not be called without a selection")
	}
}

func TestProcessorAppContextInPrompt(t *testing.T) {
	stub := &stubChat{reply: "cleaned"}
	llm := &LLM{client: stub, model: openai.GPT4oMini}
	p := NewProcessor(emptyDict(t), llm, "")

	app := &core.AppContext{AppName: "Slack", WindowTitle: "#general"}
	if _, err := p.Process("um so like the thing", core.ModeReformulation, "", app); err != nil {
		t.Fatalf("Process: %v", err)
	}
	system := stub.requests[0].Messages[0].Content
	if !strings.Contains(system, "Slack") {
		t.Errorf("system prompt missing app context: %q", system)
	}
}

func TestNewLLMWithoutKey(t *testing.T) {
	llm := NewLLM("", "")
	if llm.IsAvailable() {
		t.Error("nil LLM must report unavailable")
	}
}
