package encoder

import (
	"bytes"
	"encoding/binary"
)

const wavHeaderSize = 44

// WavEncoder wraps PCM in a canonical 44-byte RIFF header. The header is
// written with zero sizes up front and patched on Close.
type WavEncoder struct {
	buf         bytes.Buffer
	totalFrames uint64
}

func NewWav() *WavEncoder {
	e := &WavEncoder{}
	e.writeHeader(0)
	return e
}

func (e *WavEncoder) writeHeader(dataSize uint32) {
	byteRate := uint32(SampleRate * Channels * BitsPerSample / 8)
	blockAlign := uint16(Channels * BitsPerSample / 8)

	e.buf.WriteString("RIFF")
	binary.Write(&e.buf, binary.LittleEndian, uint32(wavHeaderSize-8)+dataSize)
	e.buf.WriteString("WAVE")
	e.buf.WriteString("fmt ")
	binary.Write(&e.buf, binary.LittleEndian, uint32(16))
	binary.Write(&e.buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&e.buf, binary.LittleEndian, uint16(Channels))
	binary.Write(&e.buf, binary.LittleEndian, uint32(SampleRate))
	binary.Write(&e.buf, binary.LittleEndian, byteRate)
	binary.Write(&e.buf, binary.LittleEndian, blockAlign)
	binary.Write(&e.buf, binary.LittleEndian, uint16(BitsPerSample))
	e.buf.WriteString("data")
	binary.Write(&e.buf, binary.LittleEndian, dataSize)
}

func (e *WavEncoder) EncodeBlock(block []int16) error {
	for _, s := range block {
		binary.Write(&e.buf, binary.LittleEndian, s)
	}
	e.totalFrames += uint64(len(block))
	return nil
}

func (e *WavEncoder) Close() error {
	data := e.buf.Bytes()
	dataSize := uint32(len(data) - wavHeaderSize)
	binary.LittleEndian.PutUint32(data[4:], uint32(wavHeaderSize-8)+dataSize)
	binary.LittleEndian.PutUint32(data[40:], dataSize)
	return nil
}

func (e *WavEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

func (e *WavEncoder) TotalFrames() uint64 {
	return e.totalFrames
}

// WAV is a shortcut for wrapping a whole PCM buffer at once.
func WAV(pcm []byte) []byte {
	out, _ := Encode("wav", pcm) // the wav path cannot fail
	return out
}
