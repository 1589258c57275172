package textproc

import (
	"dicton/core"
	"dicton/log"
)

// Processor implements the text-processing port. Raw mode bypasses
// everything; every other mode runs the dictionary first, then its LLM
// step when one is configured. Modes that need an LLM degrade to the
// dictionary result when none is available, so dictation keeps working
// without an OpenAI key.
type Processor struct {
	dict       *Dictionary
	llm        *LLM
	targetLang string
}

func NewProcessor(dict *Dictionary, llm *LLM, targetLang string) *Processor {
	return &Processor{dict: dict, llm: llm, targetLang: targetLang}
}

func (p *Processor) Process(text string, mode core.Mode, selectedText string, app *core.AppContext) (string, error) {
	if mode == core.ModeRaw {
		return text, nil
	}

	cleaned := p.dict.Apply(text)

	cfg := core.ConfigFor(mode)
	if cfg.RequiresLLM && !p.llm.IsAvailable() {
		log.Warnf("mode %s needs an LLM but none is configured, falling back to basic", mode)
		return cleaned, nil
	}

	switch mode {
	case core.ModeBasic:
		return cleaned, nil
	case core.ModeTranslation:
		text, err := p.llm.Translate(cleaned, p.targetLang, app)
		return p.llmResult(mode, text, err)
	case core.ModeReformulation:
		text, err := p.llm.Reformulate(cleaned, app)
		return p.llmResult(mode, text, err)
	case core.ModeTranslateReformat:
		text, err := p.llm.TranslateReformat(cleaned, p.targetLang, app)
		return p.llmResult(mode, text, err)
	case core.ModeActOnText:
		if selectedText == "" {
			log.Warn("act_on_text without a selection, returning transcript")
			return cleaned, nil
		}
		text, err := p.llm.ActOnText(selectedText, cleaned, app)
		return p.llmResult(mode, text, err)
	default:
		return cleaned, nil
	}
}

// llmResult maps an LLM failure to an empty result. A failed completion
// is an expected outcome of this port (network, quota), so the controller
// sees "no result" and notifies, rather than an error it would propagate.
func (p *Processor) llmResult(mode core.Mode, text string, err error) (string, error) {
	if err != nil {
		log.Errorf("llm processing for mode %s: %v", mode, err)
		return "", nil
	}
	return text, nil
}
