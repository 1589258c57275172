package textproc

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"dicton/core"
)

const llmTimeout = 30 * time.Second

// chatClient is the slice of the OpenAI client the LLM uses, split out
// so tests can stub completions.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLM runs the language-model half of the processing modes:
// translation fallback, reformulation, and act-on-text.
type LLM struct {
	client chatClient
	model  string
}

// NewLLM returns nil when no API key is configured; callers treat a nil
// LLM as "modes that need it degrade to basic processing".
func NewLLM(apiKey, model string) *LLM {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &LLM{client: openai.NewClient(apiKey), model: model}
}

func (l *LLM) IsAvailable() bool { return l != nil && l.client != nil }

func (l *LLM) complete(system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), llmTimeout)
	defer cancel()

	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: l.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("llm completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// appHint folds the focused-application context into the prompt so the
// model can match the register of the target window.
func appHint(app *core.AppContext) string {
	if app == nil || app.AppName == "" {
		return ""
	}
	return fmt.Sprintf(" The text will be inserted into %s (%s); match the tone appropriate for that application.", app.AppName, app.WindowTitle)
}

// Translate renders text in targetLang, keeping meaning and register.
func (l *LLM) Translate(text, targetLang string, app *core.AppContext) (string, error) {
	if targetLang == "" {
		targetLang = "English"
	}
	system := "You are a translator. Translate the user's text to " + targetLang +
		". Output only the translation, no quotes, no commentary." + appHint(app)
	return l.complete(system, text)
}

// Reformulate cleans up dictated text: filler words out, grammar fixed,
// meaning and voice preserved.
func (l *LLM) Reformulate(text string, app *core.AppContext) (string, error) {
	system := "You clean up dictated text. Remove filler words, fix grammar and " +
		"punctuation, keep the author's meaning and voice. Output only the " +
		"cleaned text." + appHint(app)
	return l.complete(system, text)
}

// TranslateReformat combines translation and cleanup in one call.
func (l *LLM) TranslateReformat(text, targetLang string, app *core.AppContext) (string, error) {
	if targetLang == "" {
		targetLang = "English"
	}
	system := "You translate dictated text to " + targetLang + " and clean it up: " +
		"remove filler words, fix grammar and punctuation, keep the meaning. " +
		"Output only the result." + appHint(app)
	return l.complete(system, text)
}

// ActOnText applies a spoken instruction to the user's selected text
// and returns the transformed selection.
func (l *LLM) ActOnText(selected, instruction string, app *core.AppContext) (string, error) {
	system := "You edit text on behalf of the user. Apply their instruction to " +
		"the given text and output only the resulting text, nothing else." + appHint(app)
	user := fmt.Sprintf("Instruction: %s\n\nText:\n%s", instruction, selected)
	return l.complete(system, user)
}
