// Package audio decodes synthesized speech and plays it one clip at a time.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/f3rmion/palavra/internal/palavra"
)

// SampleRate is the nominal rate of synthesized speech.
const SampleRate = 24000

// Buffer is mono audio with samples in [-1, 1).
type Buffer struct {
	SampleRate int
	Samples    []float32
}

// Duration returns the playing time of the buffer.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(b.Samples)) * time.Second / time.Duration(b.SampleRate)
}

// DecodePCM decodes base64 signed 16-bit little-endian mono PCM. A trailing
// odd byte is dropped.
func DecodePCM(b64 string) (Buffer, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return Buffer{}, fmt.Errorf("%w: decoding audio: %w", palavra.ErrMalformedResponse, err)
	}

	n := len(raw) / 2
	samples := make([]float32, n)
	for i := range n {
		s := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float32(s) / 32768
	}
	return Buffer{SampleRate: SampleRate, Samples: samples}, nil
}

// Ints converts the buffer back to signed 16-bit sample values.
func (b Buffer) Ints() []int {
	out := make([]int, len(b.Samples))
	for i, s := range b.Samples {
		out[i] = int(max(min(s*32768, 32767), -32768))
	}
	return out
}
