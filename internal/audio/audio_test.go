package audio

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/palavra/internal/palavra"
)

func pcm(samples ...int16) string {
	raw := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(s))
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestDecodePCM(t *testing.T) {
	b, err := DecodePCM(pcm(0, 16384, -32768, 32767))
	require.NoError(t, err)

	assert.Equal(t, SampleRate, b.SampleRate)
	require.Len(t, b.Samples, 4)
	assert.InDelta(t, 0, b.Samples[0], 1e-6)
	assert.InDelta(t, 0.5, b.Samples[1], 1e-6)
	assert.InDelta(t, -1, b.Samples[2], 1e-6)
	assert.Less(t, b.Samples[3], float32(1))
}

func TestDecodePCMDropsOddByte(t *testing.T) {
	b, err := DecodePCM(base64.StdEncoding.EncodeToString([]byte{1, 0, 7}))
	require.NoError(t, err)
	assert.Len(t, b.Samples, 1)
}

func TestDecodePCMInvalid(t *testing.T) {
	_, err := DecodePCM("not base64!")
	require.ErrorIs(t, err, palavra.ErrMalformedResponse)
}

func TestDuration(t *testing.T) {
	b := Buffer{SampleRate: SampleRate, Samples: make([]float32, SampleRate/2)}
	assert.Equal(t, 500*time.Millisecond, b.Duration())
}

func TestWriteWAV(t *testing.T) {
	b, err := DecodePCM(pcm(1, -1, 300, -32768))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWAV(f, b))
	require.NoError(t, f.Close())

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	got, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, []int{1, -1, 300, -32768}, got.Data)
	assert.Equal(t, uint32(SampleRate), dec.SampleRate)
	assert.Equal(t, uint16(1), dec.NumChans)
	assert.Equal(t, uint16(16), dec.BitDepth)
}

func TestInts_Clamps(t *testing.T) {
	b := Buffer{SampleRate: SampleRate, Samples: []float32{1.5, -2, 0.5}}
	assert.Equal(t, []int{32767, -32768, 16384}, b.Ints())
}

type outputMock struct {
	PlayFunc func(ctx context.Context, b Buffer) error
	played   []Buffer
}

func (m *outputMock) Play(ctx context.Context, b Buffer) error {
	m.played = append(m.played, b)
	if m.PlayFunc == nil {
		return nil
	}
	return m.PlayFunc(ctx, b)
}

type speakerMock struct {
	SpeakFunc func(ctx context.Context, text string) (palavra.Optional[string], error)
}

func (m *speakerMock) Speak(ctx context.Context, text string) (palavra.Optional[string], error) {
	return m.SpeakFunc(ctx, text)
}

func TestPlayerRejectsOverlap(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	out := &outputMock{PlayFunc: func(context.Context, Buffer) error {
		close(entered)
		<-release
		return nil
	}}
	p := NewPlayer(out, nil)

	done := make(chan error, 1)
	go func() { done <- p.Play(context.Background(), Buffer{SampleRate: SampleRate}) }()
	<-entered

	assert.True(t, p.Playing())
	assert.ErrorIs(t, p.Play(t.Context(), Buffer{}), palavra.ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, p.Playing())
}

func TestPlayerSpeak(t *testing.T) {
	out := &outputMock{}
	p := NewPlayer(out, nil)
	s := &speakerMock{SpeakFunc: func(_ context.Context, text string) (palavra.Optional[string], error) {
		assert.Equal(t, "olá", text)
		return palavra.Some(pcm(10, 20)), nil
	}}

	require.NoError(t, p.Speak(t.Context(), s, "olá"))
	require.Len(t, out.played, 1)
	assert.Len(t, out.played[0].Samples, 2)
}

func TestPlayerSpeakAbsentAudio(t *testing.T) {
	out := &outputMock{}
	p := NewPlayer(out, nil)
	s := &speakerMock{SpeakFunc: func(context.Context, string) (palavra.Optional[string], error) {
		return palavra.None[string](), nil
	}}

	require.NoError(t, p.Speak(t.Context(), s, "x"))
	assert.Empty(t, out.played)
	assert.False(t, p.Playing())
}

func TestPlayerSpeakError(t *testing.T) {
	p := NewPlayer(&outputMock{}, nil)
	s := &speakerMock{SpeakFunc: func(context.Context, string) (palavra.Optional[string], error) {
		return palavra.None[string](), palavra.ErrCredential
	}}

	err := p.Speak(t.Context(), s, "x")
	require.ErrorIs(t, err, palavra.ErrCredential)
	assert.False(t, p.Playing())
}

func TestCommandOutputOverride(t *testing.T) {
	o := CommandOutput{Command: "myplayer --quiet"}
	name, args, err := o.command()
	require.NoError(t, err)
	assert.Equal(t, "myplayer", name)
	assert.Equal(t, []string{"--quiet", "/tmp/x.wav"}, args("/tmp/x.wav"))
}
