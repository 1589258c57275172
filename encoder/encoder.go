// Package encoder turns raw capture PCM into the formats providers accept.
package encoder

import (
	"encoding/binary"
	"fmt"
)

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)

type Encoder interface {
	EncodeBlock(block []int16) error
	Close() error
	Bytes() []byte
	TotalFrames() uint64
}

func New(format string) (Encoder, error) {
	switch format {
	case "wav":
		return NewWav(), nil
	case "flac":
		return NewFlac()
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// Samples converts little-endian s16 PCM bytes into samples. A trailing
// odd byte is dropped.
func Samples(pcm []byte) []int16 {
	samples := make([]int16, 0, len(pcm)/2)
	for i := 0; i+1 < len(pcm); i += 2 {
		samples = append(samples, int16(binary.LittleEndian.Uint16(pcm[i:])))
	}
	return samples
}

// Encode runs a full encode of pcm in one call.
func Encode(format string, pcm []byte) ([]byte, error) {
	enc, err := New(format)
	if err != nil {
		return nil, err
	}

	samples := Samples(pcm)
	for len(samples) > 0 {
		n := min(len(samples), BlockSize)
		if err := enc.EncodeBlock(samples[:n]); err != nil {
			return nil, err
		}
		samples = samples[n:]
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// Duration returns the audio length in seconds for a raw PCM buffer.
func Duration(pcm []byte) float64 {
	return float64(len(pcm)/2) / float64(SampleRate)
}
