package audio

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth      = 16
	pcmWaveFormat = 1
)

// WriteWAV writes the buffer to w as a PCM16 mono WAV file.
func WriteWAV(w io.WriteSeeker, b Buffer) error {
	enc := wav.NewEncoder(w, b.SampleRate, bitDepth, 1, pcmWaveFormat)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: b.SampleRate},
		Data:           b.Ints(),
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing wav: %w", err)
	}
	return nil
}
