package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"

	"golang.org/x/image/math/fixed"
)

// gridProvider is a monospace provider with solid rectangular glyphs: every
// rune advances 10px except space (5px, no ink). Line height is 16px.
type gridProvider struct {
	coverage uint8
}

func (p gridProvider) AdvanceWidth(r rune, scale float64) float64 {
	if r == ' ' {
		return 5
	}
	return 10
}

func (p gridProvider) VMetrics(scale float64) VMetrics {
	return VMetrics{Ascent: 10, Descent: 4, LineGap: 2}
}

func (p gridProvider) Layout(text string, scale float64, origin fixed.Point26_6) []PositionedGlyph {
	cov := p.coverage
	if cov == 0 {
		cov = 0xff
	}
	var glyphs []PositionedGlyph
	dot := origin
	for _, r := range text {
		g := PositionedGlyph{Rune: r, Dot: dot}
		adv := int(p.AdvanceWidth(r, scale))
		if r != ' ' {
			x, y := dot.X.Floor(), dot.Y.Floor()
			g.Bounds = image.Rect(x, y-10, x+adv, y)
			g.Coverage = image.NewAlpha(image.Rect(0, 0, adv, 10))
			for i := range g.Coverage.Pix {
				g.Coverage.Pix[i] = cov
			}
		}
		glyphs = append(glyphs, g)
		dot.X += fixed.I(adv)
	}
	return glyphs
}

var (
	gray  = color.RGBA{0x40, 0x40, 0x40, 0xff}
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

func filledRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// testGIF encodes n full-canvas frames, each filled with a different shade,
// with a delay of 7 hundredths of a second.
func testGIF(t testing.TB, n, w, h int) []byte {
	t.Helper()
	pal := color.Palette{color.Black, gray, color.RGBA{0xff, 0, 0, 0xff}, color.RGBA{0, 0, 0xff, 0xff}}
	g := &gif.GIF{}
	for i := 0; i < n; i++ {
		frame := image.NewPaletted(image.Rect(0, 0, w, h), pal)
		for j := range frame.Pix {
			frame.Pix[j] = uint8(i % len(pal))
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, 7)
	}
	buf := bytes.NewBuffer(nil)
	if err := gif.EncodeAll(buf, g); err != nil {
		t.Fatalf("can't encode test gif: %v", err)
	}
	return buf.Bytes()
}

func testAnimation(t testing.TB, n, w, h int) *Animation {
	t.Helper()
	anim, err := DecodeAnimation(testGIF(t, n, w, h))
	if err != nil {
		t.Fatalf("can't decode test gif: %v", err)
	}
	return anim
}
