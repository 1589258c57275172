package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"dicton/audio"
	"dicton/beep"
	"dicton/clipboard"
	"dicton/config"
	"dicton/core"
	"dicton/hotkey"
	"dicton/log"
	"dicton/metrics"
	"dicton/notify"
	"dicton/output"
	"dicton/paste"
	"dicton/shutdown"
	"dicton/stt"
	"dicton/textproc"
)

var version = "dev"

var (
	shutdownOnce sync.Once
	sessionCount atomic.Int64
)

func gracefulShutdown() {
	shutdownOnce.Do(func() {
		log.AppEnd(int(sessionCount.Load()))
		log.Close()
		tuiMu.Lock()
		p := tuiProgram
		tuiMu.Unlock()
		if p != nil {
			p.Quit()
		}
		os.Exit(0)
	})
}

// modeNames are the notification titles shown when recording starts.
var modeNames = map[core.Mode]string{
	core.ModeBasic:             "Recording",
	core.ModeTranslation:       "Translating",
	core.ModeReformulation:     "Reformulating",
	core.ModeTranslateReformat: "Translate+Reformat",
	core.ModeRaw:               "Recording (raw)",
	core.ModeActOnText:         "Act on selection",
}

func main() {
	modeFlag := flag.String("mode", "basic", "Processing mode: basic, translation, reformulation, translate_reformat, raw, act_on_text")
	envFlag := flag.String("env", "", "Path to .env file (default: ./.env if present)")
	deviceFlag := flag.String("device", "", "Use microphone device matching this name")
	setupFlag := flag.Bool("setup", false, "Select microphone device interactively")
	hotkeyFlag := flag.String("hotkey", hotkey.DefaultCombo, "Push-to-talk key combination")
	langFlag := flag.String("lang", "", "Language hint for transcription (e.g. en, fr). Empty = auto-detect")
	targetFlag := flag.String("target", "", "Target language for translation modes")
	dictFlag := flag.String("dictionary", "", "Path to custom dictionary JSON")
	logPathFlag := flag.String("logpath", "", "Log directory path (default: OS-specific location)")
	metricsFlag := flag.String("metrics", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	autoPasteFlag := flag.Bool("autopaste", true, "Paste into the focused window after transcription")
	fakeFlag := flag.String("fake", "", "Replay a WAV file instead of recording (for testing)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("dicton %s\n", version)
		os.Exit(0)
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	cfg, err := config.Load(*envFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *langFlag != "" {
		cfg.Language = *langFlag
	}
	if *targetFlag != "" {
		cfg.TargetLanguage = *targetFlag
	}
	if *dictFlag != "" {
		cfg.DictionaryPath = *dictFlag
	}

	mode, ok := core.ParseMode(*modeFlag)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", *modeFlag)
		os.Exit(1)
	}
	modeCfg := core.ConfigFor(mode)
	if modeCfg.RequiresLLM && cfg.OpenAIAPIKey == "" {
		fmt.Fprintf(os.Stderr, "Warning: mode %s works best with OPENAI_API_KEY set\n", mode)
	}

	combo, err := hotkey.ParseCombo(*hotkeyFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	factory := stt.NewFactory(stt.FactoryConfig{
		Default: cfg.Provider,
		ElevenLabs: stt.ProviderConfig{
			APIKey:   cfg.ElevenLabsAPIKey,
			Model:    cfg.ElevenLabsModel,
			Timeout:  cfg.STTTimeout,
			Language: cfg.Language,
		},
		Gladia: stt.ProviderConfig{
			APIKey:   cfg.GladiaAPIKey,
			Timeout:  cfg.STTTimeout,
			Language: cfg.Language,
		},
	})
	engine := stt.NewEngine(factory, cfg.UploadFormat)

	available := factory.Available()
	if len(available) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no STT provider configured (set ELEVENLABS_API_KEY or GLADIA_API_KEY)")
	}

	var actx audio.Context
	if *fakeFlag != "" {
		beep.Disable()
		actx, err = audio.NewFakeContext(*fakeFlag, true)
	} else {
		actx, err = audio.NewContext()
	}
	if err != nil {
		log.Errorf("audio context init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing audio: %v\n", err)
		os.Exit(1)
	}
	defer actx.Close()

	var selectedDevice *audio.DeviceInfo
	if *deviceFlag != "" {
		selectedDevice, err = audio.FindDevice(actx, *deviceFlag)
		if err != nil {
			log.Warnf("device lookup failed: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: %v, using default device\n", err)
		}
	} else if *setupFlag {
		selectedDevice, err = audio.SelectDevice(actx)
		if err != nil {
			log.Warnf("device selection failed: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: device selection failed: %v, using default\n", err)
			selectedDevice = nil
		}
	}

	recorder := audio.NewRecorder(actx, selectedDevice, func(level float64) {
		tuiSend(AudioLevelMsg{Level: level})
	})

	dict := textproc.LoadDictionary(cfg.DictionaryPath)
	llm := textproc.NewLLM(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	proc := textproc.NewProcessor(dict, llm, cfg.TargetLanguage)

	writer := output.NewWriter()
	writer.AutoPaste = *autoPasteFlag
	out := &sessionOutput{inner: writer}

	ui := notify.New(cfg.Notifications)
	tracker := metrics.NewTracker()

	ctrl := core.NewController(recorder, engine, proc, out, ui, tracker)
	tuiOnCancel = ctrl.Cancel

	if *metricsFlag != "" {
		go func() {
			if err := metrics.Serve(*metricsFlag); err != nil {
				log.Errorf("metrics server error: %v", err)
			}
		}()
	}

	go engine.Warm()
	go beep.Init()
	go func() {
		if err := paste.Init(); err != nil {
			log.Warnf("paste setup: %v", err)
		}
	}()

	hk, err := hotkey.New(combo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := hk.Register(); err != nil {
		log.Errorf("hotkey register error: %v", err)
		fmt.Fprintf(os.Stderr, "Error registering hotkey: %v\n", err)
		if diag, derr := hotkey.Diagnose(); derr != nil {
			fmt.Fprintf(os.Stderr, "  %v\n", derr)
		} else {
			fmt.Fprintf(os.Stderr, "  %s\n", diag)
		}
		os.Exit(1)
	}
	defer hk.Unregister()

	if *tuiFlag {
		tuiMu.Lock()
		tuiProgram = NewTUIProgram(combo.String())
		tuiMu.Unlock()
		go func() {
			if _, err := tuiProgram.Run(); err != nil {
				log.Errorf("TUI error: %v", err)
				os.Exit(1)
			}
			gracefulShutdown()
		}()
		<-tuiReady
	}

	tuiSend(ModeLineMsg{Text: modeLineText(mode, cfg, available)})
	tuiSend(DeviceLineMsg{Text: deviceLineText(selectedDevice)})

	log.AppStart(cfg.Provider, mode.String(), combo.String())

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		gracefulShutdown()
	}()

	var busy atomic.Bool
	for {
		select {
		case <-hk.Keydown():
			if !busy.CompareAndSwap(false, true) {
				continue
			}
			go beep.PlayStart()
			tuiSend(RecordingStartMsg{})
			sess := newSessionContext(modeCfg)
			go func() {
				ok, summary, err := ctrl.RunSession(mode, sess, modeNames, func() { go beep.PlayEnd() })
				finishSession(mode, cfg.Provider, ctrl.Token().Cancelled(), ok, summary, err, out)
				busy.Store(false)
			}()

		case <-hk.Keyup():
			if ctrl.State() == core.StateRecording {
				tuiSend(ProcessingMsg{})
				ctrl.Stop()
			}
		}
	}
}

// sessionOutput forwards to the real output port and keeps the last
// delivered text for the TUI.
type sessionOutput struct {
	inner core.TextOutput
	last  atomic.Value // string
}

func (s *sessionOutput) Output(text string, mode core.Mode, replaceSelection bool, app *core.AppContext) error {
	s.last.Store(text)
	return s.inner.Output(text, mode, replaceSelection, app)
}

func (s *sessionOutput) lastText() string {
	if v, ok := s.last.Load().(string); ok {
		return v
	}
	return ""
}

// newSessionContext snapshots the environment before recording starts.
// For selection modes the clipboard stands in for the selection: the
// user copies the text they want to act on, then speaks.
func newSessionContext(modeCfg core.ModeConfig) core.SessionContext {
	sess := core.SessionContext{App: activeApp()}
	if modeCfg.RequiresSelection {
		if text, err := clipboard.Read(); err == nil {
			sess.SelectedText = text
		}
	}
	return sess
}

// activeApp asks the window system which application has focus. Best
// effort: nil when the lookup fails or the platform has no helper.
func activeApp() *core.AppContext {
	switch runtime.GOOS {
	case "linux":
		name, err := exec.Command("xdotool", "getactivewindow", "getwindowname").Output()
		if err != nil {
			return nil
		}
		title := strings.TrimSpace(string(name))
		return &core.AppContext{AppName: appNameFromTitle(title), WindowTitle: title}
	case "darwin":
		name, err := exec.Command("osascript", "-e",
			`tell application "System Events" to get name of first application process whose frontmost is true`).Output()
		if err != nil {
			return nil
		}
		return &core.AppContext{AppName: strings.TrimSpace(string(name))}
	default:
		return nil
	}
}

// appNameFromTitle takes the trailing "- App" segment most window
// titles carry, falling back to the full title.
func appNameFromTitle(title string) string {
	if i := strings.LastIndex(title, " - "); i >= 0 && i+3 < len(title) {
		return title[i+3:]
	}
	return title
}

func finishSession(mode core.Mode, provider string, cancelled, ok bool, summary *metrics.Summary, err error, out *sessionOutput) {
	metrics.RecordSession(mode.String(), ok, cancelled)
	log.Session(log.SessionSummary{
		Mode:         mode.String(),
		Provider:     provider,
		Success:      ok,
		Cancelled:    cancelled,
		CaptureMs:    summary.StageMs("audio_capture"),
		TranscribeMs: summary.StageMs("stt_transcription"),
		ProcessMs:    summary.StageMs("text_processing"),
		OutputMs:     summary.StageMs("text_output"),
		TotalMs:      summary.TotalMs(),
		AudioS:       summary.StageMs("audio_capture") / 1000,
		TextChars:    len(out.lastText()),
	})

	if err != nil {
		log.Errorf("session error: %v", err)
		go beep.PlayError()
	}
	if ok {
		sessionCount.Add(1)
	}

	tuiSend(SessionDoneMsg{
		Text:      out.lastText(),
		Stats:     statsLines(summary),
		Success:   ok,
		Cancelled: cancelled,
		NoSpeech:  !ok && !cancelled && err == nil,
	})
}

func statsLines(summary *metrics.Summary) []string {
	if summary == nil {
		return nil
	}
	return []string{fmt.Sprintf("capture %.0fms · stt %.0fms · process %.0fms · output %.0fms · total %.0fms",
		summary.StageMs("audio_capture"),
		summary.StageMs("stt_transcription"),
		summary.StageMs("text_processing"),
		summary.StageMs("text_output"),
		summary.TotalMs())}
}

func modeLineText(mode core.Mode, cfg *config.Config, available []string) string {
	providerLabel := cfg.Provider
	if len(available) == 0 {
		providerLabel += " (no key)"
	}
	if cfg.Language != "" {
		providerLabel += " (" + cfg.Language + ")"
	}
	return fmt.Sprintf("[%s | %s | %s]", mode, cfg.UploadFormat, providerLabel)
}

func deviceLineText(dev *audio.DeviceInfo) string {
	name := "system default"
	suffix := ""
	if dev != nil {
		name = dev.Name
		if audio.IsBluetooth(dev.Name) {
			suffix = " (BT!)"
		}
	}
	return "mic: " + name + suffix
}
