// Package blockart renders headwords and illustrations as terminal block art
// using half-block characters.
package blockart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/muesli/termenv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
)

var fontPaths = []string{
	// macOS
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	"/System/Library/Fonts/PingFang.ttc",
	"/System/Library/Fonts/Helvetica.ttc",
	// Linux
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Bold.ttc",
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	// Windows
	"C:\\Windows\\Fonts\\arialuni.ttf",
	"C:\\Windows\\Fonts\\msyh.ttc",
	"C:\\Windows\\Fonts\\arialbd.ttf",
}

var (
	faceOnce sync.Once
	face     font.Face
)

func loadFace() font.Face {
	faceOnce.Do(func() {
		for _, path := range fontPaths {
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if f := parseFace(data); f != nil {
				face = f
				return
			}
		}
	})
	return face
}

func parseFace(data []byte) font.Face {
	opts := &opentype.FaceOptions{Size: 64, DPI: 72}
	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		if fnt, err := coll.Font(0); err == nil {
			if f, err := opentype.NewFace(fnt, opts); err == nil {
				return f
			}
		}
	}
	if fnt, err := opentype.Parse(data); err == nil {
		if f, err := opentype.NewFace(fnt, opts); err == nil {
			return f
		}
	}
	return nil
}

// FontAvailable reports whether a system font was found for Text.
func FontAvailable() bool {
	return loadFace() != nil
}

// Text renders word in at most cols x rows cells. It returns "" when no
// font is available.
func Text(word string, cols, rows int) string {
	f := loadFace()
	if word == "" || f == nil || cols <= 0 || rows <= 0 {
		return ""
	}

	bounds, advance := font.BoundString(f, word)
	width := advance.Ceil()
	height := (bounds.Max.Y - bounds.Min.Y).Ceil()
	pad := 4

	src := image.NewGray(image.Rect(0, 0, width+2*pad, height+2*pad))
	draw.Draw(src, src.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  src,
		Src:  image.White,
		Face: f,
		Dot:  fixed.P(pad, pad-bounds.Min.Y.Ceil()),
	}
	d.DrawString(word)

	// Keep the aspect ratio: one cell is one pixel wide and two pixels tall.
	w, h := fitSize(src.Bounds().Dx(), src.Bounds().Dy(), cols, rows*2)
	scaled := imaging.Resize(src, w, h, imaging.Box)
	return monoHalfBlocks(scaled, 40)
}

// Image renders a data:<mime>;base64 URI in at most cols x rows cells using
// the terminal's color profile.
func Image(dataURI string, cols, rows int) (string, error) {
	img, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	return renderImage(img, cols, rows, termenv.ColorProfile()), nil
}

// DecodeDataURI decodes a base64 PNG, JPEG or WebP data URI.
func DecodeDataURI(uri string) (image.Image, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data uri")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data uri encoding")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

func renderImage(img image.Image, cols, rows int, profile termenv.Profile) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	b := img.Bounds()
	w, h := fitSize(b.Dx(), b.Dy(), cols, rows*2)
	scaled := imaging.Resize(img, w, h, imaging.Lanczos)

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := hex(scaled.At(x, y))
			bottom := top
			if y+1 < h {
				bottom = hex(scaled.At(x, y+1))
			}
			if profile == termenv.Ascii {
				sb.WriteString("▀")
				continue
			}
			sb.WriteString(termenv.String("▀").
				Foreground(profile.Color(top)).
				Background(profile.Color(bottom)).
				String())
		}
		if y+2 < h {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// fitSize scales w x h to fit in maxW x maxH, keeping the aspect ratio.
func fitSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	nw, nh := maxW, h*maxW/w
	if nh > maxH {
		nw, nh = w*maxH/h, maxH
	}
	return max(nw, 1), max(nh, 1)
}

// monoHalfBlocks turns a grayscale image into ▀▄█ art.
func monoHalfBlocks(img *image.NRGBA, threshold uint8) string {
	b := img.Bounds()
	on := func(x, y int) bool {
		if y >= b.Max.Y {
			return false
		}
		return img.NRGBAAt(x, y).R > threshold
	}

	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top, bottom := on(x, y), on(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		if y+2 < b.Max.Y {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Cache memoizes rendered art by key. It is safe for concurrent use.
type Cache struct {
	mu sync.Mutex
	m  map[string]string
}

// Get returns the cached value for key or stores render()'s result.
func (c *Cache) Get(key string, render func() string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = make(map[string]string)
	}
	if v, ok := c.m[key]; ok {
		return v
	}
	v := render()
	c.m[key] = v
	return v
}
