package blockart

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeDataURI(t *testing.T) {
	img, err := DecodeDataURI(pngDataURI(t, 8, 4))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	_, err = DecodeDataURI("data:image/png,raw")
	assert.Error(t, err)
	_, err = DecodeDataURI("https://example.com/cat.png")
	assert.Error(t, err)
}

func TestRenderImageFitsBox(t *testing.T) {
	img, err := DecodeDataURI(pngDataURI(t, 40, 40))
	require.NoError(t, err)

	out := renderImage(img, 10, 10, termenv.Ascii)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 5)
	for _, l := range lines {
		assert.Equal(t, 10, strings.Count(l, "▀"))
	}
}

func TestFitSize(t *testing.T) {
	w, h := fitSize(100, 50, 20, 20)
	assert.Equal(t, 20, w)
	assert.Equal(t, 10, h)

	w, h = fitSize(50, 100, 20, 20)
	assert.Equal(t, 10, w)
	assert.Equal(t, 20, h)
}

func TestCache(t *testing.T) {
	var c Cache
	calls := 0
	render := func() string { calls++; return "art" }

	assert.Equal(t, "art", c.Get("k", render))
	assert.Equal(t, "art", c.Get("k", render))
	assert.Equal(t, 1, calls)
}
