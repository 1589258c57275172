//go:build darwin

package beep

import (
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

// The device stays open between cues, so there is no startup latency
// to pad against and the bursts can be short.
const (
	startDur = 0.03
	endDur   = 0.05
)

var (
	backend  *malgo.AllocatedContext
	device   *malgo.Device
	deviceMu sync.Mutex

	// read by the audio callback, written under deviceMu
	current   atomic.Pointer[[]int16]
	currentAt atomic.Uint32
)

func initBackend() {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return
	}
	backend = ctx
	if err := openDevice(); err != nil {
		backend.Uninit()
		backend = nil
	}
}

func openDevice() error {
	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.SampleRate = sampleRate

	var err error
	device, err = malgo.InitDevice(backend.Context, config, malgo.DeviceCallbacks{
		Data: fillOutput,
	})
	return err
}

func fillOutput(pOutput, _ []byte, frameCount uint32) {
	for i := range pOutput {
		pOutput[i] = 0
	}
	samples := current.Load()
	if samples == nil {
		return
	}
	pos := currentAt.Load()
	total := uint32(len(*samples))
	if pos >= total {
		current.Store(nil)
		return
	}
	n := frameCount
	if pos+n > total {
		n = total - pos
	}
	for i := uint32(0); i < n; i++ {
		s := (*samples)[pos+i]
		pOutput[i*2] = byte(s)
		pOutput[i*2+1] = byte(s >> 8)
	}
	currentAt.Store(pos + n)
}

func play(samples []int16) {
	if backend == nil || len(samples) == 0 {
		return
	}
	deviceMu.Lock()
	defer deviceMu.Unlock()
	if device == nil {
		return
	}

	device.Stop()
	currentAt.Store(0)
	current.Store(&samples)

	if err := device.Start(); err != nil {
		// The handle goes stale across sleep/wake; rebuild it once.
		device.Uninit()
		if err := openDevice(); err != nil {
			current.Store(nil)
			return
		}
		if err := device.Start(); err != nil {
			current.Store(nil)
		}
	}
}
