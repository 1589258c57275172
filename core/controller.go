package core

import "dicton/metrics"

// Controller orchestrates a single dictation session: capture, transcribe,
// process, output. It owns the state machine and the cancellation token;
// everything else is reached through ports. RunSession executes on the
// caller's goroutine, while Stop and Cancel are safe to call from another
// goroutine (typically the hotkey handler) to unblock capture.
type Controller struct {
	audio     AudioCapture
	stt       STTService
	processor TextProcessor
	output    TextOutput
	ui        UIFeedback
	metrics   MetricsSink

	machine *StateMachine
	cancel  *CancelToken
}

func NewController(
	audio AudioCapture,
	stt STTService,
	processor TextProcessor,
	output TextOutput,
	ui UIFeedback,
	sink MetricsSink,
) *Controller {
	return &Controller{
		audio:     audio,
		stt:       stt,
		processor: processor,
		output:    output,
		ui:        ui,
		metrics:   sink,
		machine:   NewStateMachine(),
		cancel:    NewCancelToken(),
	}
}

// State returns the current session state.
func (c *Controller) State() SessionState {
	return c.machine.State()
}

// Token exposes the cancellation token so the capture port can share it.
func (c *Controller) Token() *CancelToken {
	return c.cancel
}

// Stop ends recording and lets the session proceed to processing.
func (c *Controller) Stop() {
	c.audio.Stop()
	c.machine.Transition(EventStop)
}

// Cancel ends recording and discards the session.
func (c *Controller) Cancel() {
	c.cancel.Cancel()
	c.audio.Cancel()
	c.machine.Transition(EventCancel)
}

// fail walks the error branch: Error state, metrics closed, Reset back to
// Idle. Every failure path after capture goes through here so the metrics
// session is always ended exactly once.
func (c *Controller) fail() *metrics.Summary {
	c.machine.Transition(EventError)
	summary := c.metrics.EndSession()
	c.machine.Transition(EventReset)
	return summary
}

// RunSession runs one record -> transcribe -> process -> output cycle.
// It blocks until the capture port is released by Stop or Cancel. The
// returned summary is always valid, success or not; a non-nil error means
// a port failed unexpectedly (the metrics session is still closed).
func (c *Controller) RunSession(
	mode Mode,
	session SessionContext,
	modeNames map[Mode]string,
	preOutput func(),
) (bool, *metrics.Summary, error) {
	modeName := modeNames[mode]
	if modeName == "" {
		modeName = "Recording"
	}

	c.metrics.StartSession()
	c.cancel.Reset()
	c.machine.Transition(EventStart)

	if session.HasSelection() {
		c.ui.Notify(modeName, "Speak your instruction")
	} else {
		c.ui.Notify(modeName, "Press the hotkey again to stop")
	}

	stopCapture := c.metrics.Measure("audio_capture", mode.String())
	audio, err := c.audio.Record()
	stopCapture()

	c.machine.Transition(EventStop)

	if err != nil {
		return false, c.fail(), err
	}

	if c.cancel.Cancelled() {
		// Intentional user action: no Error state, no notification.
		c.machine.Transition(EventCancel)
		return false, c.metrics.EndSession(), nil
	}

	if len(audio) == 0 {
		c.ui.Notify("No audio", "Nothing was recorded")
		return false, c.fail(), nil
	}

	stopSTT := c.metrics.Measure("stt_transcription")
	text, err := c.stt.Transcribe(audio)
	stopSTT()
	if err != nil {
		return false, c.fail(), err
	}
	if text == "" {
		c.ui.Notify("No speech", "Try again")
		return false, c.fail(), nil
	}

	stopProc := c.metrics.Measure("text_processing", mode.String())
	result, err := c.processor.Process(text, mode, session.SelectedText, session.App)
	stopProc()
	if err != nil {
		return false, c.fail(), err
	}
	if result == "" {
		c.ui.Notify("Processing failed", "Check logs")
		return false, c.fail(), nil
	}

	c.machine.Transition(EventProcessDone)

	if preOutput != nil {
		preOutput()
	}

	stopOut := c.metrics.Measure("text_output")
	err = c.output.Output(result, mode, session.HasSelection(), session.App)
	stopOut()
	if err != nil {
		return false, c.fail(), err
	}

	c.machine.Transition(EventOutputDone)
	return true, c.metrics.EndSession(), nil
}
