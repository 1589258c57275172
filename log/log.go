package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog        zerolog.Logger
	diagFile       *os.File
	transcribeFile *os.File
	logMu          sync.Mutex
	logReady       bool
	pid            int
	dir            string
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: DICTON_LOG_PATH environment variable
	envPath := os.Getenv("DICTON_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	transcribePath := filepath.Join(dir, "transcribe_log.txt")
	transcribeFile, err = os.OpenFile(transcribePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if transcribeFile != nil {
		transcribeFile.Close()
		transcribeFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// InvalidTransition records a session event that is not valid for the
// current state. The state machine ignores such events, so this warning
// is the only trace they leave.
func InvalidTransition(state, event string) {
	if !logReady {
		return
	}
	diagLog.Warn().
		Str("state", state).
		Str("event", event).
		Msg("invalid_transition")
}

// SessionSummary is the per-session metric event written after every
// dictation session, successful or not.
type SessionSummary struct {
	Mode         string
	Provider     string
	Success      bool
	Cancelled    bool
	CaptureMs    float64
	TranscribeMs float64
	ProcessMs    float64
	OutputMs     float64
	TotalMs      float64
	AudioS       float64
	TextChars    int
}

func Session(s SessionSummary) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("mode", s.Mode).
		Str("provider", s.Provider).
		Bool("success", s.Success).
		Bool("cancelled", s.Cancelled).
		Float64("capture_ms", s.CaptureMs).
		Float64("transcribe_ms", s.TranscribeMs).
		Float64("process_ms", s.ProcessMs).
		Float64("output_ms", s.OutputMs).
		Float64("total_ms", s.TotalMs).
		Float64("audio_s", s.AudioS).
		Int("text_chars", s.TextChars).
		Msg("session")
}

// ProviderFallback records a call-time switch from one provider to another.
func ProviderFallback(from, to string) {
	if !logReady {
		return
	}
	diagLog.Warn().
		Str("from", from).
		Str("to", to).
		Msg("provider_fallback")
}

func TranscriptionText(text string) {
	if !logReady {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	line := fmt.Sprintf("%s\t[%d]\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, text)
	transcribeFile.WriteString(line)
}

func AppStart(provider, mode, hotkey string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("provider", provider).
		Str("mode", mode).
		Str("hotkey", hotkey).
		Msg("app_start")
}

func AppEnd(sessions int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("sessions", sessions).
		Msg("app_end")
}
