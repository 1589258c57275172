package audio

import (
	"fmt"
	"sync"

	"dicton/encoder"
)

// Too few frames to contain speech; treated as no audio.
const minFrames = encoder.SampleRate / 10

// Recorder accumulates one utterance of PCM. Record blocks until Stop
// or Cancel is called from another goroutine, the way a push-to-talk
// session works: the hotkey handler stops it, the capture thread fills
// it.
type Recorder struct {
	ctx     Context
	device  *DeviceInfo
	cfg     CaptureConfig
	onLevel func(float64)

	mu        sync.Mutex
	stop      chan struct{}
	cancelled bool
}

// NewRecorder records from device (nil for system default). onLevel,
// when set, receives the RMS of every captured block for level meters;
// it is called from the capture goroutine and must not block.
func NewRecorder(ctx Context, device *DeviceInfo, onLevel func(float64)) *Recorder {
	return &Recorder{
		ctx:    ctx,
		device: device,
		cfg: CaptureConfig{
			SampleRate: encoder.SampleRate,
			Channels:   encoder.Channels,
		},
		onLevel: onLevel,
	}
}

// Record captures until Stop or Cancel. It returns the raw PCM, nil
// when cancelled, or nil when the capture was too short to contain
// speech. Only one recording may be in flight at a time.
func (r *Recorder) Record() ([]byte, error) {
	r.mu.Lock()
	if r.stop != nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("recording already in progress")
	}
	stop := make(chan struct{})
	r.stop = stop
	r.cancelled = false
	r.mu.Unlock()

	finish := func() bool {
		r.mu.Lock()
		cancelled := r.cancelled
		r.stop = nil
		r.mu.Unlock()
		return cancelled
	}

	capture, err := r.ctx.NewCapture(r.device, r.cfg)
	if err != nil {
		finish()
		return nil, fmt.Errorf("opening capture device: %w", err)
	}
	defer capture.Close()

	var bufMu sync.Mutex
	var pcm []byte
	capture.SetCallback(func(data []byte, _ uint32) {
		bufMu.Lock()
		pcm = append(pcm, data...)
		bufMu.Unlock()
		if r.onLevel != nil {
			r.onLevel(Level(data))
		}
	})

	if err := capture.Start(); err != nil {
		finish()
		return nil, fmt.Errorf("starting capture: %w", err)
	}

	<-stop
	capture.ClearCallback()
	capture.Stop()

	cancelled := finish()
	if cancelled {
		return nil, nil
	}

	bufMu.Lock()
	defer bufMu.Unlock()
	if len(pcm)/2 < minFrames {
		return nil, nil
	}
	return pcm, nil
}

// Stop ends the current recording so Record returns its buffer. Safe
// to call when nothing is recording.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop == nil {
		return
	}
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
}

// Cancel ends the current recording and discards its buffer.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop == nil {
		return
	}
	r.cancelled = true
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
}
