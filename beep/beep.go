// Package beep plays short audio cues marking the session lifecycle:
// a high tick when recording starts, a lower one when it stops, and a
// low double beep on error.
package beep

import (
	"math"
	"sync"
)

var disabled bool

// Disable mutes all cues, used when replaying a file into the fake
// capture backend where a speaker tone would be noise.
func Disable() { disabled = true }

const (
	sampleRate = 44100

	startFreq   = 1200.0
	startVolume = 0.5
	startDecay  = 60.0

	endFreq   = 900.0
	endVolume = 0.5
	endDecay  = 40.0

	errorFreq   = 350.0
	errorVolume = 0.6
	errorDecay  = 30.0
)

var (
	startCue []int16
	endCue   []int16
	errorCue []int16
	initOnce sync.Once
)

func setup() {
	startCue = tone(startFreq, startDur, startVolume, startDecay)
	endCue = tone(endFreq, endDur, endVolume, endDecay)
	errorCue = doubleTone(errorFreq, 0.08, 0.05, errorVolume, errorDecay)
	initBackend()
}

// tone renders a mono sine burst with an exponential decay envelope.
func tone(freq, duration, volume, decay float64) []int16 {
	n := int(float64(sampleRate) * duration)
	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		envelope := math.Exp(-t * decay)
		samples[i] = int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
	}
	return samples
}

// doubleTone is two bursts separated by a short gap of silence.
func doubleTone(freq, dur, gap, volume, decay float64) []int16 {
	burst := tone(freq, dur, volume, decay)
	out := make([]int16, 0, len(burst)*2+int(float64(sampleRate)*gap))
	out = append(out, burst...)
	out = append(out, make([]int16, int(float64(sampleRate)*gap))...)
	return append(out, burst...)
}

// Init renders the cues and opens the playback backend ahead of the
// first session, so PlayStart does not stall the hotkey handler.
func Init() {
	initOnce.Do(setup)
}

func PlayStart() {
	if disabled {
		return
	}
	initOnce.Do(setup)
	go play(startCue)
}

func PlayEnd() {
	if disabled {
		return
	}
	initOnce.Do(setup)
	go play(endCue)
}

func PlayError() {
	if disabled {
		return
	}
	initOnce.Do(setup)
	go play(errorCue)
}
