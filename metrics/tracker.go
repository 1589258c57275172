// Package metrics tracks per-session stage latencies and mirrors them
// into Prometheus collectors.
package metrics

import (
	"sync"
	"time"
)

// Stage is one named, completed timing scope within a session.
type Stage struct {
	Name     string
	Tags     []string
	Duration time.Duration
}

// Summary is the immutable result of one metrics session.
type Summary struct {
	StartedAt time.Time
	Total     time.Duration
	Stages    []Stage
}

// StageMs returns the duration of the named stage in milliseconds, or 0
// if the stage never ran.
func (s *Summary) StageMs(name string) float64 {
	if s == nil {
		return 0
	}
	for _, st := range s.Stages {
		if st.Name == name {
			return float64(st.Duration.Milliseconds())
		}
	}
	return 0
}

func (s *Summary) TotalMs() float64 {
	if s == nil {
		return 0
	}
	return float64(s.Total.Milliseconds())
}

// Tracker accumulates stage timings for one session at a time. It
// implements the controller's metrics port. Measure calls made outside a
// session are counted anyway; the controller brackets everything in
// StartSession/EndSession so that only happens in tests.
type Tracker struct {
	mu      sync.Mutex
	active  bool
	started time.Time
	stages  []Stage
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) StartSession() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = true
	t.started = time.Now()
	t.stages = nil
}

// Measure opens a timing scope. The returned func closes it; calling it
// more than once records only the first close.
func (t *Tracker) Measure(name string, tags ...string) func() {
	start := time.Now()
	var once sync.Once
	return func() {
		once.Do(func() {
			d := time.Since(start)
			t.mu.Lock()
			t.stages = append(t.stages, Stage{Name: name, Tags: tags, Duration: d})
			t.mu.Unlock()
			observeStage(name, d)
		})
	}
}

// EndSession closes the session and returns its summary. Ending a session
// that was never started returns an empty summary rather than panicking.
func (t *Tracker) EndSession() *Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	summary := &Summary{
		StartedAt: t.started,
		Stages:    t.stages,
	}
	if t.active {
		summary.Total = time.Since(t.started)
	}
	t.active = false
	t.stages = nil
	return summary
}
