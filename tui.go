package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUI message types
type RecordingStartMsg struct{}
type ProcessingMsg struct{}
type AudioLevelMsg struct{ Level float64 }
type SessionDoneMsg struct {
	Text      string
	Stats     []string
	Success   bool
	Cancelled bool
	NoSpeech  bool
}
type ModeLineMsg struct{ Text string }
type DeviceLineMsg struct{ Text string }
type tickMsg time.Time

type tuiState int

const (
	tuiStateIdle tuiState = iota
	tuiStateRecording
	tuiStateProcessing
)

var (
	tuiProgram   *tea.Program
	tuiMu        sync.Mutex
	tuiReady     = make(chan struct{})
	tuiReadyOnce sync.Once

	// set by main(); invoked when the user cancels from the TUI
	tuiOnCancel func()
)

var (
	styleRec     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleProc    = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	styleIdle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	styleText    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleStats   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	styleDimBold = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	styleMeterHi = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	styleMeterLo = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
)

type tuiModel struct {
	state         tuiState
	frame         int
	startedAt     time.Time
	level         float64
	peak          float64
	msgCount      int
	width, height int
	modeLine      string
	deviceLine    string
	hotkeyLine    string
	lastText      string
	lastStats     []string
	noSpeech      bool
	cancelled     bool
}

func NewTUIProgram(hotkeyLine string) *tea.Program {
	m := tuiModel{hotkeyLine: hotkeyLine}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	tuiReadyOnce.Do(func() { close(tuiReady) })
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.state != tuiStateIdle && tuiOnCancel != nil {
				tuiOnCancel()
			}
		}

	case tickMsg:
		m.frame++
		return m, tuiTick()

	case RecordingStartMsg:
		m.state = tuiStateRecording
		m.startedAt = time.Now()
		m.level = 0
		m.peak = 0

	case ProcessingMsg:
		m.state = tuiStateProcessing
		m.level = 0

	case AudioLevelMsg:
		if m.state == tuiStateRecording {
			m.level = m.level*0.6 + msg.Level*0.4
			if msg.Level > m.peak {
				m.peak = msg.Level
			}
		}

	case SessionDoneMsg:
		m.state = tuiStateIdle
		m.level = 0
		m.cancelled = msg.Cancelled
		m.noSpeech = msg.NoSpeech
		if !msg.Cancelled {
			m.msgCount++
			m.lastText = msg.Text
			m.lastStats = msg.Stats
		}

	case ModeLineMsg:
		m.modeLine = msg.Text

	case DeviceLineMsg:
		m.deviceLine = msg.Text
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var lines []string

	switch m.state {
	case tuiStateRecording:
		dur := time.Since(m.startedAt).Seconds()
		lines = append(lines, styleRec.Render(fmt.Sprintf("● REC %.1fs", dur)))
		lines = append(lines, renderMeter(m.level))
		if dur > 1.0 && m.peak < 0.02 {
			lines = append(lines, styleWarn.Render("  ⚠ no voice detected"))
		}
	case tuiStateProcessing:
		dots := strings.Repeat(".", m.frame%4)
		lines = append(lines, styleProc.Render("◌ PROCESSING"+dots))
	default:
		lines = append(lines, styleIdle.Render("○ STANDBY"))
	}

	lines = append(lines, "")
	if m.modeLine != "" {
		lines = append(lines, styleStats.Render(m.modeLine))
	}
	if m.deviceLine != "" {
		lines = append(lines, styleIdle.Render(m.deviceLine))
	}
	lines = append(lines, "")

	if m.lastText != "" {
		title := fmt.Sprintf("Last transcription (#%d)", m.msgCount)
		if m.noSpeech {
			title += " (no speech)"
		}
		lines = append(lines, styleStats.Render(title))
		wrapWidth := m.width - 2
		if wrapWidth < 10 {
			wrapWidth = 10
		}
		for _, l := range wrapText(m.lastText, wrapWidth) {
			lines = append(lines, styleText.Render(l))
		}
		for _, s := range m.lastStats {
			lines = append(lines, styleStats.Render(s))
		}
		lines = append(lines, "")
	} else if m.cancelled {
		lines = append(lines, styleIdle.Render("(cancelled)"), "")
	}

	lines = append(lines,
		styleDimBold.Render(m.hotkeyLine)+styleDim.Render(" hold to dictate, esc to cancel"),
		styleDim.Render("dicton "+version))

	return strings.Join(lines, "\n")
}

func renderMeter(level float64) string {
	const width = 30
	filled := int(level * float64(width) * 3)
	if filled > width {
		filled = width
	}
	return styleMeterHi.Render(strings.Repeat("▰", filled)) +
		styleMeterLo.Render(strings.Repeat("▱", width-filled))
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	var lines []string
	for len(text) > width {
		splitAt := width
		for i := width; i > 0; i-- {
			if text[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, text[:splitAt])
		text = strings.TrimLeft(text[splitAt:], " ")
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}
