package metrics

import (
	"testing"
	"time"
)

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker()
	tr.StartSession()

	stop := tr.Measure("audio_capture", "basic")
	time.Sleep(5 * time.Millisecond)
	stop()

	summary := tr.EndSession()
	if summary == nil {
		t.Fatal("EndSession returned nil")
	}
	if len(summary.Stages) != 1 {
		t.Fatalf("got %d stages, want 1", len(summary.Stages))
	}
	if summary.Stages[0].Name != "audio_capture" {
		t.Errorf("stage name = %q", summary.Stages[0].Name)
	}
	if summary.Stages[0].Duration <= 0 {
		t.Error("stage duration should be positive")
	}
	if summary.Total < summary.Stages[0].Duration {
		t.Error("total should cover the measured stage")
	}
}

func TestMeasureStopIdempotent(t *testing.T) {
	tr := NewTracker()
	tr.StartSession()

	stop := tr.Measure("stt_transcription")
	stop()
	stop() // second close must not add another stage

	summary := tr.EndSession()
	if len(summary.Stages) != 1 {
		t.Errorf("got %d stages, want 1", len(summary.Stages))
	}
}

func TestEndWithoutStart(t *testing.T) {
	tr := NewTracker()
	summary := tr.EndSession()
	if summary == nil {
		t.Fatal("EndSession returned nil")
	}
	if len(summary.Stages) != 0 {
		t.Errorf("got %d stages, want 0", len(summary.Stages))
	}
	if summary.Total != 0 {
		t.Errorf("total = %v, want 0", summary.Total)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	tr := NewTracker()

	tr.StartSession()
	tr.Measure("audio_capture")()
	first := tr.EndSession()

	tr.StartSession()
	second := tr.EndSession()

	if len(first.Stages) != 1 {
		t.Errorf("first session: got %d stages, want 1", len(first.Stages))
	}
	if len(second.Stages) != 0 {
		t.Errorf("second session: got %d stages, want 0", len(second.Stages))
	}
}

func TestSummaryStageMs(t *testing.T) {
	s := &Summary{Stages: []Stage{{Name: "text_output", Duration: 250 * time.Millisecond}}}
	if got := s.StageMs("text_output"); got != 250 {
		t.Errorf("StageMs = %v, want 250", got)
	}
	if got := s.StageMs("missing"); got != 0 {
		t.Errorf("StageMs(missing) = %v, want 0", got)
	}

	var nilSummary *Summary
	if got := nilSummary.StageMs("x"); got != 0 {
		t.Errorf("nil summary StageMs = %v, want 0", got)
	}
}
