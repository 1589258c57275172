package core

// Mode selects the processing pipeline applied to a transcript.
type Mode int

const (
	ModeBasic Mode = iota // transcription + dictionary
	ModeTranslation
	ModeReformulation
	ModeTranslateReformat
	ModeRaw       // untouched STT output
	ModeActOnText // apply spoken instruction to selected text
)

func (m Mode) String() string {
	switch m {
	case ModeBasic:
		return "basic"
	case ModeTranslation:
		return "translation"
	case ModeReformulation:
		return "reformulation"
	case ModeTranslateReformat:
		return "translate_reformat"
	case ModeRaw:
		return "raw"
	case ModeActOnText:
		return "act_on_text"
	default:
		return "unknown"
	}
}

// ModeConfig describes what a mode needs from the rest of the system.
type ModeConfig struct {
	Mode              Mode
	RequiresSelection bool
	RequiresLLM       bool
	Description       string
}

var modeConfigs = map[Mode]ModeConfig{
	ModeBasic: {
		Mode:        ModeBasic,
		Description: "Basic speech-to-text transcription",
	},
	ModeTranslation: {
		Mode:        ModeTranslation,
		RequiresLLM: true,
		Description: "Transcribe and translate to English",
	},
	ModeReformulation: {
		Mode:        ModeReformulation,
		RequiresLLM: true,
		Description: "Transcribe with light reformulation",
	},
	ModeTranslateReformat: {
		Mode:        ModeTranslateReformat,
		RequiresLLM: true,
		Description: "Translate and reformat text",
	},
	ModeRaw: {
		Mode:        ModeRaw,
		Description: "Raw STT output without processing",
	},
	ModeActOnText: {
		Mode:              ModeActOnText,
		RequiresSelection: true,
		RequiresLLM:       true,
		Description:       "Apply voice instruction to selected text",
	},
}

// ConfigFor returns the configuration for mode, defaulting to basic for
// unknown values.
func ConfigFor(mode Mode) ModeConfig {
	if cfg, ok := modeConfigs[mode]; ok {
		return cfg
	}
	return modeConfigs[ModeBasic]
}

// ParseMode maps a user-supplied mode name to a Mode.
func ParseMode(name string) (Mode, bool) {
	for m := ModeBasic; m <= ModeActOnText; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return ModeBasic, false
}
